package payments

import (
	"context"
	"math/rand"
	"time"

	"servicehub/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const walletReferencePrefix = "MW-"

// MobileWalletGateway simulates a synchronous mobile-money provider: the
// charge resolves inside Initiate, there is no webhook leg.
//
// failureRate is the probability of a decline, for exercising the failure
// path in non-production environments.
type MobileWalletGateway struct {
	latency     time.Duration
	failureRate float64
	logger      *zap.Logger
}

var _ interfaces.IPaymentGateway = (*MobileWalletGateway)(nil)

func NewMobileWalletGateway(latency time.Duration, failureRate float64, logger *zap.Logger) *MobileWalletGateway {
	return &MobileWalletGateway{
		latency:     latency,
		failureRate: failureRate,
		logger:      logger,
	}
}

func (g *MobileWalletGateway) Initiate(ctx context.Context, req interfaces.GatewayRequest) (interfaces.GatewayResult, error) {
	if g.latency > 0 {
		select {
		case <-time.After(g.latency):
		case <-ctx.Done():
			return interfaces.GatewayResult{}, ctx.Err()
		}
	}

	ref := walletReferencePrefix + uuid.NewString()

	if g.failureRate > 0 && rand.Float64() < g.failureRate {
		g.logger.Warn("mobile wallet charge declined",
			zap.String("reference", ref),
			zap.Float64("amount", req.Amount),
		)
		return interfaces.GatewayResult{Status: interfaces.GatewayStatusDeclined, Reference: ref},
			interfaces.ErrGatewayDeclined
	}

	g.logger.Info("mobile wallet charge completed",
		zap.String("reference", ref),
		zap.Float64("amount", req.Amount),
		zap.String("currency", req.Currency),
	)
	return interfaces.GatewayResult{Status: interfaces.GatewayStatusCompleted, Reference: ref}, nil
}

func (g *MobileWalletGateway) Confirm(ctx context.Context, reference string) (interfaces.GatewayStatus, error) {
	// Synchronous provider: anything that got a reference already settled.
	return interfaces.GatewayStatusCompleted, nil
}

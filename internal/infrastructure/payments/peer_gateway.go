package payments

import (
	"context"

	"servicehub/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const peerReferencePrefix = "PP-"

// PeerGateway simulates an order-then-capture peer payment provider. Initiate
// opens the order and returns pending; the capture decision arrives later on
// the webhook, keyed on the order reference.
type PeerGateway struct {
	logger *zap.Logger
}

var _ interfaces.IPaymentGateway = (*PeerGateway)(nil)

func NewPeerGateway(logger *zap.Logger) *PeerGateway {
	return &PeerGateway{logger: logger}
}

func (g *PeerGateway) Initiate(ctx context.Context, req interfaces.GatewayRequest) (interfaces.GatewayResult, error) {
	ref := peerReferencePrefix + uuid.NewString()
	g.logger.Info("peer payment order opened",
		zap.String("reference", ref),
		zap.Float64("amount", req.Amount),
		zap.String("currency", req.Currency),
	)
	return interfaces.GatewayResult{Status: interfaces.GatewayStatusPending, Reference: ref}, nil
}

func (g *PeerGateway) Confirm(ctx context.Context, reference string) (interfaces.GatewayStatus, error) {
	// Capture is reported by the provider's webhook; polling an open order
	// only ever observes pending.
	return interfaces.GatewayStatusPending, nil
}

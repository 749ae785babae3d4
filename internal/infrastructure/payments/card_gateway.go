package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"servicehub/internal/usecase/interfaces"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"go.uber.org/zap"
)

var (
	ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
	ErrCardGatewayNotConfigured      = errors.New("card gateway not configured")
)

const cardReferencePrefix = "MP-"

// CardGateway processes card payments through Mercado Pago.
//
// Card charges resolve asynchronously: Initiate creates the charge and the
// final state normally arrives on the webhook. When the provider answers
// with an immediate decision (mock mode, instant approval) Initiate reports
// it directly.
type CardGateway struct {
	client   payment.Client
	logger   *zap.Logger
	mockMode bool
}

var _ interfaces.IPaymentGateway = (*CardGateway)(nil)

func NewCardGateway(accessToken string, mockMode bool, logger *zap.Logger) (*CardGateway, error) {
	if mockMode {
		logger.Info("card gateway running in mock mode")
		return &CardGateway{mockMode: true, logger: logger}, nil
	}

	if accessToken == "" {
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, err
	}
	logger.Info("card gateway initialized")

	return &CardGateway{client: payment.NewClient(cfg), logger: logger}, nil
}

func (g *CardGateway) Initiate(ctx context.Context, req interfaces.GatewayRequest) (interfaces.GatewayResult, error) {
	if g.mockMode {
		ref := cardReferencePrefix + strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		g.logger.Info("mock card charge approved",
			zap.String("reference", ref),
			zap.Float64("amount", req.Amount),
		)
		return interfaces.GatewayResult{Status: interfaces.GatewayStatusCompleted, Reference: ref}, nil
	}

	if g.client == nil {
		return interfaces.GatewayResult{}, ErrCardGatewayNotConfigured
	}

	metadata := make(map[string]any, len(req.Metadata))
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	resp, err := g.client.Create(ctx, payment.Request{
		TransactionAmount: req.Amount,
		Description:       req.Description,
		Metadata:          metadata,
	})
	if err != nil {
		g.logger.Error("card charge creation failed", zap.Error(err))
		return interfaces.GatewayResult{}, interfaces.ErrGatewayUnavailable
	}

	ref := fmt.Sprintf("%s%d", cardReferencePrefix, resp.ID)
	status, err := mapCardStatus(resp.Status)
	if err != nil {
		g.logger.Warn("card charge declined",
			zap.String("reference", ref),
			zap.String("provider_status", resp.Status),
		)
		return interfaces.GatewayResult{}, err
	}

	g.logger.Info("card charge created",
		zap.String("reference", ref),
		zap.String("provider_status", resp.Status),
	)
	return interfaces.GatewayResult{Status: status, Reference: ref}, nil
}

func (g *CardGateway) Confirm(ctx context.Context, reference string) (interfaces.GatewayStatus, error) {
	if g.mockMode {
		return interfaces.GatewayStatusCompleted, nil
	}

	if g.client == nil {
		return "", ErrCardGatewayNotConfigured
	}

	id, err := strconv.Atoi(strings.TrimPrefix(reference, cardReferencePrefix))
	if err != nil {
		return "", fmt.Errorf("malformed card reference %q: %w", reference, err)
	}

	resp, err := g.client.Get(ctx, id)
	if err != nil {
		return "", interfaces.ErrGatewayUnavailable
	}
	return mapCardStatus(resp.Status)
}

// mapCardStatus translates Mercado Pago payment statuses into the
// gateway-agnostic ones. Declines come back as ErrGatewayDeclined so callers
// never mistake them for transport failures.
func mapCardStatus(providerStatus string) (interfaces.GatewayStatus, error) {
	switch providerStatus {
	case "approved":
		return interfaces.GatewayStatusCompleted, nil
	case "pending", "in_process", "authorized":
		return interfaces.GatewayStatusPending, nil
	case "rejected", "cancelled":
		return interfaces.GatewayStatusDeclined, interfaces.ErrGatewayDeclined
	default:
		return "", fmt.Errorf("unrecognized provider status %q", providerStatus)
	}
}

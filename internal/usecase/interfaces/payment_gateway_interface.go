package interfaces

import (
	"context"
	"errors"
)

var (
	// ErrGatewayDeclined is a business decline by the provider. Not
	// retryable.
	ErrGatewayDeclined = errors.New("payment declined by gateway")

	// ErrGatewayUnavailable is a transport or provider-side failure,
	// distinct from a decline. Retryable by the caller.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

type GatewayStatus string

const (
	GatewayStatusPending   GatewayStatus = "pending"
	GatewayStatusCompleted GatewayStatus = "completed"
	GatewayStatusDeclined  GatewayStatus = "declined"
)

// GatewayRequest is the provider-agnostic payment initiation payload.
type GatewayRequest struct {
	Amount      float64
	Currency    string
	Description string
	Metadata    map[string]string
}

// GatewayResult carries the provider's decision and external reference.
type GatewayResult struct {
	Status    GatewayStatus
	Reference string
}

// IPaymentGateway abstracts external payment providers.
//
// Synchronous providers resolve to completed/declined inside Initiate;
// asynchronous ones return pending and are later reconciled through Confirm
// or a webhook keyed on the reference.
type IPaymentGateway interface {
	Initiate(ctx context.Context, req GatewayRequest) (GatewayResult, error)
	Confirm(ctx context.Context, reference string) (GatewayStatus, error)
}

package request

import (
	"servicehub/internal/domain/entities"
	"servicehub/internal/usecase"
)

// PayRequest triggers a payment for a booking or the provider activation
// fee. The amount is never part of the payload: it comes from the frozen
// pricing snapshot (or the flat activation fee) server-side.
type PayRequest struct {
	BookingCode string `json:"booking_code"`
	Type        string `json:"type" binding:"required"`
	Method      string `json:"method" binding:"required"`
	Currency    string `json:"currency"`
}

func (r PayRequest) ToCommand() usecase.PaymentCommand {
	return usecase.PaymentCommand{
		BookingCode: r.BookingCode,
		Type:        entities.PaymentType(r.Type),
		Method:      entities.PaymentMethod(r.Method),
		Currency:    r.Currency,
	}
}

type WithdrawalRequest struct {
	Amount   float64 `json:"amount" binding:"required"`
	Method   string  `json:"method"`
	Currency string  `json:"currency"`
}

func (r WithdrawalRequest) ToCommand() usecase.WithdrawalCommand {
	return usecase.WithdrawalCommand{
		Amount:   r.Amount,
		Method:   entities.PaymentMethod(r.Method),
		Currency: r.Currency,
	}
}

// WebhookRequest is the normalized asynchronous gateway notification body.
type WebhookRequest struct {
	EventID   string `json:"event_id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
}

func (r WebhookRequest) ToEvent() usecase.WebhookEvent {
	return usecase.WebhookEvent{
		EventID:   r.EventID,
		Reference: r.Reference,
		Status:    r.Status,
		Reason:    r.Reason,
	}
}

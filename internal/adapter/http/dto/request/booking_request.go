package request

import (
	"time"

	"servicehub/internal/domain/entities"
	"servicehub/internal/usecase"
)

// CreateBookingRequest is the client-facing payload for opening a booking.
// Money figures are offered prices; the server recomputes the platform fee
// and the total when freezing the pricing snapshot.
type CreateBookingRequest struct {
	ProviderID    string    `json:"provider_id" binding:"required"`
	ServiceID     string    `json:"service_id" binding:"required"`
	ServicePrice  float64   `json:"service_price" binding:"required"`
	AddOnsPrice   float64   `json:"add_ons_price"`
	Currency      string    `json:"currency"`
	ScheduledAt   time.Time `json:"scheduled_at" binding:"required"`
	Notes         string    `json:"notes"`
	PaymentMethod string    `json:"payment_method"`
}

func (r CreateBookingRequest) ToCommand() usecase.CreateBookingCommand {
	return usecase.CreateBookingCommand{
		ProviderID:    r.ProviderID,
		ServiceID:     r.ServiceID,
		ServicePrice:  r.ServicePrice,
		AddOnsPrice:   r.AddOnsPrice,
		Currency:      r.Currency,
		ScheduledAt:   r.ScheduledAt,
		Notes:         r.Notes,
		PaymentMethod: entities.PaymentMethod(r.PaymentMethod),
	}
}

type AcceptBookingRequest struct {
	Message       string     `json:"message"`
	AlternateTime *time.Time `json:"alternate_time"`
}

func (r AcceptBookingRequest) ToCommand() usecase.AcceptCommand {
	return usecase.AcceptCommand{
		Message:       r.Message,
		AlternateTime: r.AlternateTime,
	}
}

type RejectBookingRequest struct {
	Reason string `json:"reason"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type CompleteBookingRequest struct {
	WorkEvidence []string `json:"work_evidence"`
}

type DisputeBookingRequest struct {
	Reason      string   `json:"reason" binding:"required"`
	Description string   `json:"description"`
	Evidence    []string `json:"evidence"`
}

func (r DisputeBookingRequest) ToCommand() usecase.DisputeCommand {
	return usecase.DisputeCommand{
		Reason:      r.Reason,
		Description: r.Description,
		Evidence:    r.Evidence,
	}
}

type ResolveDisputeRequest struct {
	RefundAmount float64 `json:"refund_amount"`
	Note         string  `json:"note"`
}

func (r ResolveDisputeRequest) ToCommand() usecase.ResolutionCommand {
	return usecase.ResolutionCommand{
		RefundAmount: r.RefundAmount,
		Note:         r.Note,
	}
}

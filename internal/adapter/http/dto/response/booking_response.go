package response

import (
	"time"

	"servicehub/internal/domain/entities"
)

type StatusChangeResponse struct {
	From      string    `json:"from,omitempty"`
	To        string    `json:"to"`
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
}

type PricingResponse struct {
	ServicePrice float64 `json:"service_price"`
	AddOnsPrice  float64 `json:"add_ons_price"`
	PlatformFee  float64 `json:"platform_fee"`
	Total        float64 `json:"total"`
	Currency     string  `json:"currency,omitempty"`
}

type ExecutionResponse struct {
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	ActualDuration  int64      `json:"actual_duration_minutes,omitempty"`
	WorkEvidence    []string   `json:"work_evidence,omitempty"`
	ProviderMessage string     `json:"provider_message,omitempty"`
}

type ConfirmationResponse struct {
	ClientConfirmed bool       `json:"client_confirmed"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	AutoConfirmAt   *time.Time `json:"auto_confirm_at,omitempty"`
	Method          string     `json:"method,omitempty"`
}

type DisputeResponse struct {
	DisputedBy  string                     `json:"disputed_by"`
	Reason      string                     `json:"reason"`
	Description string                     `json:"description,omitempty"`
	Evidence    []string                   `json:"evidence,omitempty"`
	OpenedAt    time.Time                  `json:"opened_at"`
	Resolution  *DisputeResolutionResponse `json:"resolution,omitempty"`
}

type DisputeResolutionResponse struct {
	ResolvedBy   string    `json:"resolved_by"`
	RefundAmount float64   `json:"refund_amount"`
	Note         string    `json:"note,omitempty"`
	ResolvedAt   time.Time `json:"resolved_at"`
}

type CancellationResponse struct {
	CancelledBy  string    `json:"cancelled_by"`
	Reason       string    `json:"reason,omitempty"`
	RefundAmount float64   `json:"refund_amount"`
	Fee          float64   `json:"fee"`
	CancelledAt  time.Time `json:"cancelled_at"`
}

type BookingPaymentResponse struct {
	Method    string     `json:"method,omitempty"`
	Status    string     `json:"status,omitempty"`
	Reference string     `json:"reference,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

type BookingResponse struct {
	Code       string `json:"code"`
	ClientID   string `json:"client_id"`
	ProviderID string `json:"provider_id"`
	ServiceID  string `json:"service_id"`

	Status  string                 `json:"status"`
	History []StatusChangeResponse `json:"history"`

	Pricing     PricingResponse `json:"pricing"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	ClientNotes string          `json:"client_notes,omitempty"`

	Execution    ExecutionResponse      `json:"execution"`
	Confirmation ConfirmationResponse   `json:"confirmation"`
	Dispute      *DisputeResponse       `json:"dispute,omitempty"`
	Cancellation *CancellationResponse  `json:"cancellation,omitempty"`
	Payment      BookingPaymentResponse `json:"payment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromBooking(b entities.Booking) BookingResponse {
	resp := BookingResponse{
		Code:       b.Code,
		ClientID:   b.ClientID,
		ProviderID: b.ProviderID,
		ServiceID:  b.ServiceID,

		Status: string(b.Status),

		Pricing: PricingResponse{
			ServicePrice: b.Pricing.ServicePrice,
			AddOnsPrice:  b.Pricing.AddOnsPrice,
			PlatformFee:  b.Pricing.PlatformFee,
			Total:        b.Pricing.Total,
			Currency:     b.Pricing.Currency,
		},
		ScheduledAt: b.ScheduledAt,
		ClientNotes: b.ClientNotes,

		Execution: ExecutionResponse{
			StartedAt:       b.Execution.StartedAt,
			CompletedAt:     b.Execution.CompletedAt,
			ActualDuration:  b.Execution.ActualDuration,
			WorkEvidence:    b.Execution.WorkEvidence,
			ProviderMessage: b.Execution.ProviderMessage,
		},
		Confirmation: ConfirmationResponse{
			ClientConfirmed: b.Confirmation.ClientConfirmed,
			ConfirmedAt:     b.Confirmation.ConfirmedAt,
			AutoConfirmAt:   b.Confirmation.AutoConfirmAt,
			Method:          string(b.Confirmation.Method),
		},
		Payment: BookingPaymentResponse{
			Method:    string(b.Payment.Method),
			Status:    string(b.Payment.Status),
			Reference: b.Payment.Reference,
			PaidAt:    b.Payment.PaidAt,
		},

		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	resp.History = make([]StatusChangeResponse, 0, len(b.History))
	for _, h := range b.History {
		resp.History = append(resp.History, StatusChangeResponse{
			From:      string(h.From),
			To:        string(h.To),
			ActorID:   h.ActorID,
			ActorRole: string(h.ActorRole),
			Reason:    h.Reason,
			At:        h.At,
		})
	}

	if b.Dispute != nil {
		d := &DisputeResponse{
			DisputedBy:  b.Dispute.DisputedBy,
			Reason:      b.Dispute.Reason,
			Description: b.Dispute.Description,
			Evidence:    b.Dispute.Evidence,
			OpenedAt:    b.Dispute.OpenedAt,
		}
		if b.Dispute.Resolution != nil {
			d.Resolution = &DisputeResolutionResponse{
				ResolvedBy:   b.Dispute.Resolution.ResolvedBy,
				RefundAmount: b.Dispute.Resolution.RefundAmount,
				Note:         b.Dispute.Resolution.Note,
				ResolvedAt:   b.Dispute.Resolution.ResolvedAt,
			}
		}
		resp.Dispute = d
	}
	if b.Cancellation != nil {
		resp.Cancellation = &CancellationResponse{
			CancelledBy:  b.Cancellation.CancelledBy,
			Reason:       b.Cancellation.Reason,
			RefundAmount: b.Cancellation.RefundAmount,
			Fee:          b.Cancellation.Fee,
			CancelledAt:  b.Cancellation.CancelledAt,
		}
	}
	return resp
}

package response

import (
	"time"

	"servicehub/internal/domain/entities"
)

type BreakdownResponse struct {
	ServiceAmount float64 `json:"service_amount,omitempty"`
	AddOnsAmount  float64 `json:"add_ons_amount,omitempty"`
	PlatformFee   float64 `json:"platform_fee,omitempty"`
	Taxes         float64 `json:"taxes,omitempty"`
	Discount      float64 `json:"discount,omitempty"`
}

type PaymentResponse struct {
	Reference   string            `json:"reference"`
	UserID      string            `json:"user_id"`
	BookingCode string            `json:"booking_code,omitempty"`
	Type        string            `json:"type"`
	Method      string            `json:"method"`
	Status      string            `json:"status"`
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	Breakdown   BreakdownResponse `json:"breakdown"`
	FailReason  string            `json:"fail_reason,omitempty"`
	PaidAt      *time.Time        `json:"paid_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func FromPayment(p entities.Payment) PaymentResponse {
	return PaymentResponse{
		Reference:   p.Reference,
		UserID:      p.UserID,
		BookingCode: p.BookingCode,
		Type:        string(p.Type),
		Method:      string(p.Method),
		Status:      string(p.Status),
		Amount:      p.Amount,
		Currency:    p.Currency,
		Breakdown: BreakdownResponse{
			ServiceAmount: p.Breakdown.ServiceAmount,
			AddOnsAmount:  p.Breakdown.AddOnsAmount,
			PlatformFee:   p.Breakdown.PlatformFee,
			Taxes:         p.Breakdown.Taxes,
			Discount:      p.Breakdown.Discount,
		},
		FailReason: p.FailReason,
		PaidAt:     p.PaidAt,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func FromPayments(payments []entities.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, FromPayment(p))
	}
	return out
}

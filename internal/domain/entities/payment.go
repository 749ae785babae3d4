package entities

import "time"

// PaymentType classifies a ledger entry by the money-moving event behind it.

type PaymentType string

const (
	PaymentTypeActivationFee  PaymentType = "activation_fee"
	PaymentTypeBookingPayment PaymentType = "booking_payment"
	PaymentTypeWithdrawal     PaymentType = "withdrawal"
	PaymentTypeRefund         PaymentType = "refund"
)

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodMobileWallet PaymentMethod = "mobile_wallet"
	PaymentMethodPeer         PaymentMethod = "peer"
)

// PaymentStatus represents the processing outcome of a ledger entry.
//
// completed and failed are terminal; refunded is reachable only from
// completed.

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// AllowedPaymentTransitions mirrors AllowedTransitions for ledger entries.
var AllowedPaymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:    {PaymentStatusProcessing, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusProcessing: {PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusCompleted:  {PaymentStatusRefunded},
	PaymentStatusFailed:     {},
	PaymentStatusCancelled:  {},
	PaymentStatusRefunded:   {},
}

// CanTransitionPayment checks if a ledger entry status change is legal.
func CanTransitionPayment(from, to PaymentStatus) bool {
	for _, s := range AllowedPaymentTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Breakdown itemizes one ledger entry.
type Breakdown struct {
	ServiceAmount float64 `json:"service_amount,omitempty"`
	AddOnsAmount  float64 `json:"add_ons_amount,omitempty"`
	PlatformFee   float64 `json:"platform_fee,omitempty"`
	Taxes         float64 `json:"taxes,omitempty"`
	Discount      float64 `json:"discount,omitempty"`
}

// Payment is one immutable money-moving event.
//
// Storage model (DynamoDB):
//   - PK: reference (the gateway's external reference; duplicate webhook
//     deliveries and retried triggers are deduplicated on it)
//   - GSI1 (booking_code-index): booking_code
//
// Amount is signed from the owner's perspective: withdrawals are negative.
type Payment struct {
	Reference   string        `json:"reference"`
	UserID      string        `json:"user_id"`
	BookingCode string        `json:"booking_code,omitempty"`
	Type        PaymentType   `json:"type"`
	Method      PaymentMethod `json:"method"`
	Status      PaymentStatus `json:"status"`
	Amount      float64       `json:"amount"`
	Currency    string        `json:"currency"`
	Breakdown   Breakdown     `json:"breakdown"`
	FailReason  string        `json:"fail_reason,omitempty"`
	PaidAt      *time.Time    `json:"paid_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

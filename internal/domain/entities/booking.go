package entities

import "time"

// BookingStatus represents the booking lifecycle state.
//
// Domain notes:
//   - Confirmation is not a status of its own: a confirmed booking stays in
//     "completed" with Confirmation.ClientConfirmed set. Dispute resolution
//     also lands back on "completed", carrying a Resolution record.

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusAccepted   BookingStatus = "accepted"
	BookingStatusRejected   BookingStatus = "rejected"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusDisputed   BookingStatus = "disputed"
)

// AllowedTransitions defines the valid booking state transitions.
// The key is the current status, and the value is the set of legal targets.
var AllowedTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusAccepted, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusAccepted:   {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress: {BookingStatusCompleted, BookingStatusDisputed},
	BookingStatusCompleted:  {BookingStatusDisputed},
	BookingStatusDisputed:   {BookingStatusCompleted},
	BookingStatusRejected:   {},
	BookingStatusCancelled:  {},
}

// CanTransition checks if a transition between two statuses is allowed.
func CanTransition(from, to BookingStatus) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
	RoleSystem   Role = "system"
)

// Actor identifies who drives a transition.
type Actor struct {
	ID   string
	Role Role
}

type ConfirmationMethod string

const (
	ConfirmationManual ConfirmationMethod = "manual"
	ConfirmationAuto   ConfirmationMethod = "auto"
)

const (
	// AutoConfirmWindow is how long a client has to confirm completed work
	// before the scheduler finalizes it.
	AutoConfirmWindow = 48 * time.Hour

	// CancellationNotice is the minimum time before the scheduled start at
	// which a client may still cancel. The boundary is strict: exactly two
	// hours away is too late.
	CancellationNotice = 2 * time.Hour
)

// StatusChange is one append-only status history entry.
type StatusChange struct {
	From      BookingStatus `json:"from"`
	To        BookingStatus `json:"to"`
	ActorID   string        `json:"actor_id"`
	ActorRole Role          `json:"actor_role"`
	Reason    string        `json:"reason,omitempty"`
	At        time.Time     `json:"at"`
}

// PricingSnapshot freezes the money figures at creation time. It must never
// be recalculated from live service pricing afterwards.
type PricingSnapshot struct {
	ServicePrice float64 `json:"service_price"`
	AddOnsPrice  float64 `json:"add_ons_price"`
	PlatformFee  float64 `json:"platform_fee"`
	Total        float64 `json:"total"`
	Currency     string  `json:"currency"`
}

// ProviderEarnings is the amount credited to the provider wallet on
// completion: the platform fee is not part of it.
func (p PricingSnapshot) ProviderEarnings() float64 {
	return p.ServicePrice + p.AddOnsPrice
}

// ExecutionRecord captures the actual work window.
type ExecutionRecord struct {
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	ActualDuration  int64      `json:"actual_duration_minutes,omitempty"`
	WorkEvidence    []string   `json:"work_evidence,omitempty"`
	ProviderMessage string     `json:"provider_message,omitempty"`
}

type ConfirmationRecord struct {
	ClientConfirmed bool               `json:"client_confirmed"`
	ConfirmedAt     *time.Time         `json:"confirmed_at,omitempty"`
	AutoConfirmAt   *time.Time         `json:"auto_confirm_at,omitempty"`
	Method          ConfirmationMethod `json:"method,omitempty"`
}

type DisputeResolution struct {
	ResolvedBy   string    `json:"resolved_by"`
	RefundAmount float64   `json:"refund_amount"`
	Note         string    `json:"note,omitempty"`
	ResolvedAt   time.Time `json:"resolved_at"`
}

type DisputeRecord struct {
	DisputedBy  string             `json:"disputed_by"`
	Reason      string             `json:"reason"`
	Description string             `json:"description,omitempty"`
	Evidence    []string           `json:"evidence,omitempty"`
	OpenedAt    time.Time          `json:"opened_at"`
	Resolution  *DisputeResolution `json:"resolution,omitempty"`
}

type CancellationRecord struct {
	CancelledBy  string    `json:"cancelled_by"`
	Reason       string    `json:"reason,omitempty"`
	RefundAmount float64   `json:"refund_amount"`
	Fee          float64   `json:"fee"`
	CancelledAt  time.Time `json:"cancelled_at"`
}

// PaymentRecord is the payment sub-record embedded in the booking.
type PaymentRecord struct {
	Method    PaymentMethod `json:"method,omitempty"`
	Status    PaymentStatus `json:"status,omitempty"`
	Reference string        `json:"reference,omitempty"`
	PaidAt    *time.Time    `json:"paid_at,omitempty"`
}

// ProviderResponse records the provider's answer when accepting a booking.
type ProviderResponse struct {
	Message       string     `json:"message,omitempty"`
	AlternateTime *time.Time `json:"alternate_time,omitempty"`
	RespondedAt   time.Time  `json:"responded_at"`
}

// Booking is the central aggregate of the marketplace.
//
// Storage model (DynamoDB):
//   - PK: code (human-facing short code, generated with a uniqueness-retry
//     loop, not a UUID)
//   - GSI1 (status-index): status / auto_confirm_at, used by the
//     auto-confirmation sweep
//
// Parties and the pricing snapshot are immutable after creation.
type Booking struct {
	Code       string `json:"code"`
	ClientID   string `json:"client_id"`
	ProviderID string `json:"provider_id"`
	ServiceID  string `json:"service_id"`

	Status  BookingStatus  `json:"status"`
	History []StatusChange `json:"history"`

	Pricing     PricingSnapshot `json:"pricing"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	ClientNotes string          `json:"client_notes,omitempty"`

	ProviderResponse *ProviderResponse   `json:"provider_response,omitempty"`
	Execution        ExecutionRecord     `json:"execution"`
	Confirmation     ConfirmationRecord  `json:"confirmation"`
	Dispute          *DisputeRecord      `json:"dispute,omitempty"`
	Cancellation     *CancellationRecord `json:"cancellation,omitempty"`
	Payment          PaymentRecord       `json:"payment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Version is the optimistic-concurrency token, bumped by the
	// repository on every write. Not part of the API surface.
	Version int64 `json:"-"`
}

// CanBeCancelled reports whether the booking may still be cancelled by the
// client: only before work starts, and only while the scheduled start is
// strictly more than the notice window away.
func (b Booking) CanBeCancelled(now time.Time) bool {
	if b.Status != BookingStatusPending && b.Status != BookingStatusAccepted {
		return false
	}
	return b.ScheduledAt.Sub(now) > CancellationNotice
}

// AppendHistory records a transition in the append-only status history.
func (b *Booking) AppendHistory(to BookingStatus, actor Actor, reason string, at time.Time) {
	b.History = append(b.History, StatusChange{
		From:      b.Status,
		To:        to,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Reason:    reason,
		At:        at,
	})
}

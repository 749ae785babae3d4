package interfaces

import (
	"context"
	"errors"
	"time"

	"servicehub/internal/domain/entities"
)

var (
	// ErrBookingCodeExists signals a human-facing code collision on insert.
	// The caller regenerates and retries.
	ErrBookingCodeExists = errors.New("booking code already exists")
)

// IBookingRepository abstracts DynamoDB persistence for the Booking
// aggregate.
//
// All mutations are conditional writes guarded by the version the aggregate
// was read at, so concurrent writers on the same booking serialize and the
// loser observes a zero-value result instead of clobbering the winner.
// Earnings-moving transitions persist the booking and the wallet movement
// atomically: a failed write leaves both untouched and retryable.
type IBookingRepository interface {
	// Create inserts a new booking, failing with ErrBookingCodeExists when
	// the code is already taken.
	Create(ctx context.Context, b entities.Booking) (entities.Booking, error)

	// GetByCode returns the zero-value booking when nothing matches.
	GetByCode(ctx context.Context, code string) (entities.Booking, error)

	// UpdateIfStatus persists the mutated aggregate only while the stored
	// status still equals expected. Returns the zero value on conflict.
	UpdateIfStatus(ctx context.Context, b entities.Booking, expected entities.BookingStatus) (entities.Booking, error)

	// CompleteAndCreditPending persists the completed aggregate and credits
	// the provider's pending earnings in one transaction, guarded like
	// UpdateIfStatus. Returns the zero value on conflict, with neither write
	// applied.
	CompleteAndCreditPending(ctx context.Context, b entities.Booking, expected entities.BookingStatus, amount float64) (entities.Booking, error)

	// ConfirmAndReleasePending persists the confirmation and moves the
	// provider's pending earnings to the available balance in one
	// transaction, only while the stored booking is still completed,
	// unconfirmed and undisputed. Returns the zero value when the guard
	// fails, which is how exactly-once confirmation is enforced between
	// manual confirm and the sweep.
	ConfirmAndReleasePending(ctx context.Context, b entities.Booking, amount float64) (entities.Booking, error)

	// UpdatePaymentRecord merges the embedded payment sub-record without
	// touching the lifecycle state.
	UpdatePaymentRecord(ctx context.Context, code string, rec entities.PaymentRecord) (entities.Booking, error)

	// ListAutoConfirmable returns completed, unconfirmed, undisputed
	// bookings whose auto-confirm deadline has elapsed.
	ListAutoConfirmable(ctx context.Context, now time.Time, limit int) ([]entities.Booking, error)
}

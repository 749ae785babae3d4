package interfaces

import (
	"context"
	"errors"
	"time"

	"servicehub/internal/domain/entities"
)

var (
	// ErrDuplicateReference signals that a ledger entry with the same
	// external reference was already recorded. Retried triggers hit this
	// and treat the event as applied.
	ErrDuplicateReference = errors.New("payment reference already recorded")
)

// IPaymentRepository abstracts DynamoDB persistence for ledger entries.
//
// The external reference is the primary key; webhook redelivery and retried
// triggers are deduplicated on it.
type IPaymentRepository interface {
	// Create inserts a new entry, failing with ErrDuplicateReference when
	// the reference was already recorded.
	Create(ctx context.Context, p entities.Payment) (entities.Payment, error)

	// GetByReference returns the zero-value payment when nothing matches.
	GetByReference(ctx context.Context, reference string) (entities.Payment, error)

	ListByBookingCode(ctx context.Context, code string) ([]entities.Payment, error)

	// MarkCompletedIfPending transitions pending/processing to completed.
	// Returns the zero value when the entry is already terminal, making
	// duplicate webhook deliveries no-ops.
	MarkCompletedIfPending(ctx context.Context, reference string, paidAt time.Time) (entities.Payment, error)

	// MarkFailed transitions pending/processing to failed. Returns the zero
	// value when the entry is already terminal.
	MarkFailed(ctx context.Context, reference, reason string) (entities.Payment, error)

	// MarkRefundedIfCompleted transitions completed to refunded. Returns
	// the zero value otherwise.
	MarkRefundedIfCompleted(ctx context.Context, reference string) (entities.Payment, error)
}

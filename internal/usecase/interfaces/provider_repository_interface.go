package interfaces

import (
	"context"

	"servicehub/internal/domain/entities"
)

// IProviderRepository abstracts the provider record holding the wallet.
//
// DebitBalance mirrors the withdrawal primitive in entities/wallet.go: a
// single atomic ADD update with a condition expression, so there is no
// observe-then-write gap. A guard that no longer holds makes the method
// return the zero value instead of mutating. Earnings credits and releases
// go through IBookingRepository, transactionally with the booking
// transition that triggers them.
type IProviderRepository interface {
	// Get returns the zero-value provider when nothing matches.
	Get(ctx context.Context, providerID string) (entities.Provider, error)

	// DebitBalance applies SettleWithdrawal: balance -= total, guarded by
	// balance >= total. total already includes the payout fee.
	DebitBalance(ctx context.Context, providerID string, total float64) (entities.Provider, error)

	// Activate flips the provider to active once the activation fee
	// settles.
	Activate(ctx context.Context, providerID string) (entities.Provider, error)
}

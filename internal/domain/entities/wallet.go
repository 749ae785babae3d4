package entities

import "errors"

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
)

// Wallet is the provider's embedded balance record.
//
//   - Balance is withdrawable.
//   - PendingBalance is earned but not yet released by client confirmation.
//   - TotalEarnings is lifetime and monotonically non-decreasing.
//
// Balance and PendingBalance change only through the three ledger operations
// below; every other code path reads wallet state but never writes it. The
// functions are pure: they return the next wallet value, and the repository
// applies the equivalent arithmetic atomically with a conditional update.
type Wallet struct {
	Balance        float64 `json:"balance"`
	PendingBalance float64 `json:"pending_balance"`
	TotalEarnings  float64 `json:"total_earnings"`
}

// AddPendingEarnings credits earned-but-unconfirmed money. Invoked when work
// is marked complete, before client confirmation.
func AddPendingEarnings(w Wallet, amount float64) (Wallet, error) {
	if amount <= 0 {
		return Wallet{}, ErrInvalidAmount
	}
	w.PendingBalance += amount
	w.TotalEarnings += amount
	return w, nil
}

// ConfirmEarnings releases pending money into the withdrawable balance.
// Invoked exactly once per booking, by manual confirmation or the
// auto-confirm sweep.
func ConfirmEarnings(w Wallet, amount float64) (Wallet, error) {
	if amount <= 0 {
		return Wallet{}, ErrInvalidAmount
	}
	if w.PendingBalance < amount {
		return Wallet{}, ErrInsufficientBalance
	}
	w.PendingBalance -= amount
	w.Balance += amount
	return w, nil
}

// SettleWithdrawal deducts a payout plus its fee, only when the balance
// covers both.
func SettleWithdrawal(w Wallet, amount, fee float64) (Wallet, error) {
	if amount <= 0 || fee < 0 {
		return Wallet{}, ErrInvalidAmount
	}
	if w.Balance < amount+fee {
		return Wallet{}, ErrInsufficientBalance
	}
	w.Balance -= amount + fee
	return w, nil
}

// Provider is the provider-side user record slice the ledger engine needs.
// Profile CRUD lives elsewhere; this aggregate only tracks activation and
// the wallet.
type Provider struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
	Wallet Wallet `json:"wallet"`
}

package entities

import (
	"errors"
	"testing"
)

func TestAddPendingEarnings(t *testing.T) {
	w := Wallet{Balance: 10, PendingBalance: 5, TotalEarnings: 100}

	next, err := AddPendingEarnings(w, 250)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.PendingBalance != 255 || next.TotalEarnings != 350 || next.Balance != 10 {
		t.Fatalf("unexpected wallet: %+v", next)
	}

	if _, err := AddPendingEarnings(w, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := AddPendingEarnings(w, -1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestConfirmEarnings(t *testing.T) {
	w := Wallet{Balance: 10, PendingBalance: 250}

	next, err := ConfirmEarnings(w, 250)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.PendingBalance != 0 || next.Balance != 260 {
		t.Fatalf("unexpected wallet: %+v", next)
	}

	if _, err := ConfirmEarnings(w, 251); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestSettleWithdrawal(t *testing.T) {
	// With a 2% fee floored at 1.00, a 100.00 withdrawal costs 102.00. A
	// wallet holding 101.00 cannot settle it; 102.00 exactly can.
	amount := 100.0
	fee := WithdrawalFee(amount)
	if fee != 2 {
		t.Fatalf("expected fee 2, got %v", fee)
	}

	if _, err := SettleWithdrawal(Wallet{Balance: 101}, amount, fee); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	next, err := SettleWithdrawal(Wallet{Balance: 102}, amount, fee)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Balance != 0 {
		t.Fatalf("expected zero balance, got %v", next.Balance)
	}

	if _, err := SettleWithdrawal(Wallet{Balance: 102}, 0, fee); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := SettleWithdrawal(Wallet{Balance: 102}, amount, -1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative fee, got %v", err)
	}
}

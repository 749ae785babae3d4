package entities

import "testing"

func TestWithdrawalFee(t *testing.T) {
	cases := []struct {
		amount float64
		want   float64
	}{
		{amount: 10, want: 1},    // 2% = 0.20, floored to the minimum
		{amount: 50, want: 1},    // 2% = 1.00, exactly the minimum
		{amount: 100, want: 2},   // 2% above the floor
		{amount: 1000, want: 20},
	}
	for _, tc := range cases {
		if got := WithdrawalFee(tc.amount); got != tc.want {
			t.Errorf("WithdrawalFee(%v) = %v, want %v", tc.amount, got, tc.want)
		}
	}
}

func TestPricingFor(t *testing.T) {
	p := PricingFor(80, 0, "EUR")
	if p.PlatformFee != BookingFeeAmount {
		t.Fatalf("expected flat fee %v, got %v", BookingFeeAmount, p.PlatformFee)
	}
	if p.Total != 85 {
		t.Fatalf("expected total 85, got %v", p.Total)
	}
	if p.Currency != "EUR" {
		t.Fatalf("expected currency preserved, got %q", p.Currency)
	}
}

func TestCanTransitionPayment(t *testing.T) {
	if !CanTransitionPayment(PaymentStatusCompleted, PaymentStatusRefunded) {
		t.Fatalf("completed -> refunded must be allowed")
	}
	if CanTransitionPayment(PaymentStatusPending, PaymentStatusRefunded) {
		t.Fatalf("pending -> refunded must be denied")
	}
	for _, terminal := range []PaymentStatus{PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded} {
		if CanTransitionPayment(terminal, PaymentStatusCompleted) {
			t.Errorf("%s must be terminal", terminal)
		}
	}
}

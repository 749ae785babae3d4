package response

import (
	"testing"
	"time"

	"servicehub/internal/domain/entities"
)

func TestFromBooking(t *testing.T) {
	now := time.Now().UTC()
	started := now.Add(-2 * time.Hour)
	deadline := now.Add(48 * time.Hour)

	b := entities.Booking{
		Code:       "BK-ABC123",
		ClientID:   "client-1",
		ProviderID: "prov-1",
		ServiceID:  "svc-1",
		Status:     entities.BookingStatusCompleted,
		Pricing:    entities.PricingFor(200, 50, "USD"),
		History: []entities.StatusChange{
			{To: entities.BookingStatusPending, ActorID: "client-1", ActorRole: entities.RoleClient, At: now},
			{From: entities.BookingStatusPending, To: entities.BookingStatusAccepted, ActorID: "prov-1", ActorRole: entities.RoleProvider, At: now},
		},
		ScheduledAt: now,
		Execution: entities.ExecutionRecord{
			StartedAt:      &started,
			CompletedAt:    &now,
			ActualDuration: 120,
			WorkEvidence:   []string{"after.jpg"},
		},
		Confirmation: entities.ConfirmationRecord{AutoConfirmAt: &deadline},
		Dispute: &entities.DisputeRecord{
			DisputedBy: "client-1",
			Reason:     "incomplete",
			OpenedAt:   now,
			Resolution: &entities.DisputeResolution{ResolvedBy: "admin-1", RefundAmount: 100, ResolvedAt: now},
		},
		Payment:   entities.PaymentRecord{Method: entities.PaymentMethodCard, Status: entities.PaymentStatusCompleted, Reference: "MP-1", PaidAt: &now},
		CreatedAt: now,
		UpdatedAt: now,
	}

	res := FromBooking(b)
	if res.Code != "BK-ABC123" || res.Status != "completed" {
		t.Fatalf("unexpected mapped fields: %+v", res)
	}
	if res.Pricing.Total != 255 || res.Pricing.PlatformFee != 5 {
		t.Fatalf("unexpected pricing: %+v", res.Pricing)
	}
	if len(res.History) != 2 || res.History[1].From != "pending" || res.History[1].To != "accepted" {
		t.Fatalf("unexpected history: %+v", res.History)
	}
	if res.Execution.ActualDuration != 120 || res.Execution.StartedAt == nil {
		t.Fatalf("unexpected execution: %+v", res.Execution)
	}
	if res.Confirmation.AutoConfirmAt == nil || !res.Confirmation.AutoConfirmAt.Equal(deadline) {
		t.Fatalf("unexpected confirmation: %+v", res.Confirmation)
	}
	if res.Dispute == nil || res.Dispute.Resolution == nil || res.Dispute.Resolution.RefundAmount != 100 {
		t.Fatalf("unexpected dispute: %+v", res.Dispute)
	}
	if res.Payment.Reference != "MP-1" || res.Payment.Status != "completed" {
		t.Fatalf("unexpected payment record: %+v", res.Payment)
	}
	if res.Cancellation != nil {
		t.Fatalf("expected nil cancellation")
	}
}

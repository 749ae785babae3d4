package repository

import (
	"strings"
	"testing"
	"time"

	"servicehub/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func repoTestBooking() entities.Booking {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return entities.Booking{
		Code:        "BK-REPO01",
		ClientID:    "client-1",
		ProviderID:  "prov-1",
		ServiceID:   "svc-1",
		Status:      entities.BookingStatusInProgress,
		Pricing:     entities.PricingFor(200, 50, "USD"),
		ScheduledAt: at.Add(24 * time.Hour),
		CreatedAt:   at,
		UpdatedAt:   at,
		Version:     3,
	}
}

func numberValue(t *testing.T, values map[string]types.AttributeValue, key string) string {
	t.Helper()
	n, ok := values[key].(*types.AttributeValueMemberN)
	if !ok {
		t.Fatalf("expected %s to be a number, got %T", key, values[key])
	}
	return n.Value
}

func TestStatusGuardedPut(t *testing.T) {
	r := &BookingDynamoRepository{tableName: "bookings", providersTable: "providers"}
	b := repoTestBooking()

	put, next, err := r.statusGuardedPut(b, entities.BookingStatusInProgress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cond := *put.ConditionExpression
	if !strings.Contains(cond, "#status = :expected") || !strings.Contains(cond, "#version = :version") {
		t.Fatalf("expected status and version guards, got %q", cond)
	}
	if got := numberValue(t, put.ExpressionAttributeValues, ":version"); got != "3" {
		t.Fatalf("expected guard on the read version 3, got %s", got)
	}

	var it bookingItem
	if err := attributevalue.UnmarshalMap(put.Item, &it); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.Version != 4 || next.Version != 4 {
		t.Fatalf("expected the write to bump the version to 4, got item %d / next %d", it.Version, next.Version)
	}
}

func TestConfirmGuardedPut(t *testing.T) {
	r := &BookingDynamoRepository{tableName: "bookings", providersTable: "providers"}
	b := repoTestBooking()
	b.Status = entities.BookingStatusCompleted
	b.Confirmation.ClientConfirmed = true

	put, _, err := r.confirmGuardedPut(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cond := *put.ConditionExpression
	for _, guard := range []string{"#status = :completed", "#confirmed = :unconfirmed", "#disputed = :undisputed", "#version = :version"} {
		if !strings.Contains(cond, guard) {
			t.Fatalf("expected guard %q in %q", guard, cond)
		}
	}
}

func TestPaymentRecordUpdateBumpsVersion(t *testing.T) {
	r := &BookingDynamoRepository{tableName: "bookings"}
	paidAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	input := r.paymentRecordUpdateInput("BK-REPO01", entities.PaymentRecord{
		Method:    entities.PaymentMethodCard,
		Status:    entities.PaymentStatusCompleted,
		Reference: "MP-9",
		PaidAt:    &paidAt,
	})

	// The targeted merge must advance the version, so a whole-aggregate
	// writer that read the older version loses its condition instead of
	// erasing these fields.
	if !strings.Contains(*input.UpdateExpression, "ADD #version :one") {
		t.Fatalf("expected version bump in %q", *input.UpdateExpression)
	}
	ref, ok := input.ExpressionAttributeValues[":pr"].(*types.AttributeValueMemberS)
	if !ok || ref.Value != "MP-9" {
		t.Fatalf("expected payment reference MP-9, got %v", input.ExpressionAttributeValues[":pr"])
	}
}

func TestWalletMovementUpdates(t *testing.T) {
	t.Run("credit adds pending and total earnings", func(t *testing.T) {
		upd := creditPendingUpdate("providers", "prov-1", 250)
		if *upd.UpdateExpression != "ADD #pending :amount, #total :amount" {
			t.Fatalf("unexpected update expression: %q", *upd.UpdateExpression)
		}
		if got := numberValue(t, upd.ExpressionAttributeValues, ":amount"); got != "250" {
			t.Fatalf("expected amount 250, got %s", got)
		}
	})

	t.Run("release is guarded by the pending balance", func(t *testing.T) {
		upd := releasePendingUpdate("providers", "prov-1", 250)
		if !strings.Contains(*upd.ConditionExpression, "#pending >= :amount") {
			t.Fatalf("expected pending guard, got %q", *upd.ConditionExpression)
		}
		if got := numberValue(t, upd.ExpressionAttributeValues, ":negative"); got != "-250" {
			t.Fatalf("expected negative pending delta, got %s", got)
		}
	})
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"servicehub/internal/domain/entities"
	"servicehub/internal/usecase/interfaces"

	"go.uber.org/zap"
)

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrInvalidTransition    = errors.New("invalid booking transition")
	ErrForbidden            = errors.New("actor not permitted for this transition")
	ErrAlreadyConfirmed     = errors.New("booking already confirmed")
	ErrAlreadyDisputed      = errors.New("booking already disputed")
	ErrInvalidBookingInput  = errors.New("invalid booking input")
	ErrCodeGenerationFailed = errors.New("could not generate a unique booking code")
)

const (
	bookingCodePrefix   = "BK-"
	bookingCodeLength   = 6
	bookingCodeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	codeGenerateRetries = 5
	confirmRetries      = 3
)

// CreateBookingCommand carries the creation payload. Prices arrive already
// resolved by the listing layer and are frozen into the snapshot here.
type CreateBookingCommand struct {
	ProviderID    string
	ServiceID     string
	ServicePrice  float64
	AddOnsPrice   float64
	Currency      string
	ScheduledAt   time.Time
	Notes         string
	PaymentMethod entities.PaymentMethod
}

// AcceptCommand is the provider's response when taking a booking.
type AcceptCommand struct {
	Message       string
	AlternateTime *time.Time
}

type DisputeCommand struct {
	Reason      string
	Description string
	Evidence    []string
}

type ResolutionCommand struct {
	RefundAmount float64
	Note         string
}

// IBookingUseCase exposes the booking lifecycle transitions.
//
// Every transition validates the caller's role, checks the current status is
// a legal source, appends a status-history entry and performs the
// transition-specific side effects. Money-moving transitions go through the
// wallet ledger operations.
type IBookingUseCase interface {
	CreateBooking(ctx context.Context, actor entities.Actor, cmd CreateBookingCommand) (entities.Booking, error)
	GetByCode(ctx context.Context, code string) (entities.Booking, error)
	Accept(ctx context.Context, actor entities.Actor, code string, cmd AcceptCommand) (entities.Booking, error)
	Reject(ctx context.Context, actor entities.Actor, code, reason string) (entities.Booking, error)
	Start(ctx context.Context, actor entities.Actor, code string) (entities.Booking, error)
	Complete(ctx context.Context, actor entities.Actor, code string, evidence []string) (entities.Booking, error)
	Confirm(ctx context.Context, actor entities.Actor, code string, method entities.ConfirmationMethod) (entities.Booking, error)
	Cancel(ctx context.Context, actor entities.Actor, code, reason string) (entities.Booking, error)
	Dispute(ctx context.Context, actor entities.Actor, code string, cmd DisputeCommand) (entities.Booking, error)
	ResolveDispute(ctx context.Context, actor entities.Actor, code string, cmd ResolutionCommand) (entities.Booking, error)
}

type BookingUseCase struct {
	repo        interfaces.IBookingRepository
	payments    interfaces.IPaymentRepository
	notifier    interfaces.INotifier
	broadcaster interfaces.IBroadcaster
	logger      *zap.Logger

	now func() time.Time
}

var _ IBookingUseCase = (*BookingUseCase)(nil)

func NewBookingUseCase(
	repo interfaces.IBookingRepository,
	payments interfaces.IPaymentRepository,
	notifier interfaces.INotifier,
	broadcaster interfaces.IBroadcaster,
	logger *zap.Logger,
) *BookingUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingUseCase{
		repo:        repo,
		payments:    payments,
		notifier:    notifier,
		broadcaster: broadcaster,
		logger:      logger,
		now:         time.Now,
	}
}

func (u *BookingUseCase) CreateBooking(ctx context.Context, actor entities.Actor, cmd CreateBookingCommand) (entities.Booking, error) {
	if actor.Role != entities.RoleClient {
		return entities.Booking{}, ErrForbidden
	}
	cmd.ProviderID = strings.TrimSpace(cmd.ProviderID)
	cmd.ServiceID = strings.TrimSpace(cmd.ServiceID)
	if cmd.ProviderID == "" || cmd.ServiceID == "" || cmd.ServicePrice <= 0 || cmd.AddOnsPrice < 0 || cmd.ScheduledAt.IsZero() {
		return entities.Booking{}, ErrInvalidBookingInput
	}

	now := u.now().UTC()
	b := entities.Booking{
		ClientID:    actor.ID,
		ProviderID:  cmd.ProviderID,
		ServiceID:   cmd.ServiceID,
		Status:      entities.BookingStatusPending,
		Pricing:     entities.PricingFor(cmd.ServicePrice, cmd.AddOnsPrice, cmd.Currency),
		ScheduledAt: cmd.ScheduledAt.UTC(),
		ClientNotes: cmd.Notes,
		Payment: entities.PaymentRecord{
			Method: cmd.PaymentMethod,
			Status: entities.PaymentStatusPending,
		},
		History: []entities.StatusChange{{
			To:        entities.BookingStatusPending,
			ActorID:   actor.ID,
			ActorRole: actor.Role,
			Reason:    "booking created",
			At:        now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Human-facing codes are short, so collisions are expected under load.
	// Insert with a uniqueness constraint and retry rather than
	// check-then-insert.
	var created entities.Booking
	var err error
	for attempt := 0; attempt < codeGenerateRetries; attempt++ {
		b.Code = generateBookingCode()
		created, err = u.repo.Create(ctx, b)
		if err == nil {
			break
		}
		if !errors.Is(err, interfaces.ErrBookingCodeExists) {
			return entities.Booking{}, err
		}
		u.logger.Warn("booking code collision, retrying",
			zap.String("code", b.Code), zap.Int("attempt", attempt+1))
	}
	if err != nil {
		return entities.Booking{}, ErrCodeGenerationFailed
	}

	u.logger.Info("booking created",
		zap.String("code", created.Code),
		zap.String("client_id", created.ClientID),
		zap.String("provider_id", created.ProviderID),
		zap.Float64("total", created.Pricing.Total))
	u.notifyAndBroadcast(ctx, created, "booking_created")
	return created, nil
}

func (u *BookingUseCase) GetByCode(ctx context.Context, code string) (entities.Booking, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return entities.Booking{}, ErrInvalidBookingInput
	}
	b, err := u.repo.GetByCode(ctx, code)
	if err != nil {
		return entities.Booking{}, err
	}
	if b.Code == "" {
		return entities.Booking{}, ErrBookingNotFound
	}
	return b, nil
}

func (u *BookingUseCase) Accept(ctx context.Context, actor entities.Actor, code string, cmd AcceptCommand) (entities.Booking, error) {
	b, err := u.loadForTransition(ctx, actor, code, entities.BookingStatusAccepted, providerOwns)
	if err != nil {
		return entities.Booking{}, err
	}

	now := u.now().UTC()
	from := b.Status
	b.AppendHistory(entities.BookingStatusAccepted, actor, cmd.Message, now)
	b.Status = entities.BookingStatusAccepted
	b.ProviderResponse = &entities.ProviderResponse{
		Message:       cmd.Message,
		AlternateTime: cmd.AlternateTime,
		RespondedAt:   now,
	}
	b.UpdatedAt = now

	updated, err := u.persistTransition(ctx, b, from)
	if err != nil {
		return entities.Booking{}, err
	}
	u.notifyAndBroadcast(ctx, updated, "booking_accepted")
	return updated, nil
}

func (u *BookingUseCase) Reject(ctx context.Context, actor entities.Actor, code, reason string) (entities.Booking, error) {
	b, err := u.loadForTransition(ctx, actor, code, entities.BookingStatusRejected, providerOwns)
	if err != nil {
		return entities.Booking{}, err
	}

	now := u.now().UTC()
	from := b.Status
	b.AppendHistory(entities.BookingStatusRejected, actor, reason, now)
	b.Status = entities.BookingStatusRejected
	b.UpdatedAt = now

	updated, err := u.persistTransition(ctx, b, from)
	if err != nil {
		return entities.Booking{}, err
	}
	u.notifyAndBroadcast(ctx, updated, "booking_rejected")
	return updated, nil
}

func (u *BookingUseCase) Start(ctx context.Context, actor entities.Actor, code string) (entities.Booking, error) {
	b, err := u.loadForTransition(ctx, actor, code, entities.BookingStatusInProgress, providerOwns)
	if err != nil {
		return entities.Booking{}, err
	}

	now := u.now().UTC()
	from := b.Status
	b.AppendHistory(entities.BookingStatusInProgress, actor, "work started", now)
	b.Status = entities.BookingStatusInProgress
	b.Execution.StartedAt = &now
	b.UpdatedAt = now

	updated, err := u.persistTransition(ctx, b, from)
	if err != nil {
		return entities.Booking{}, err
	}
	u.notifyAndBroadcast(ctx, updated, "booking_started")
	return updated, nil
}

// Complete marks the work done, opens the 48h confirmation window and
// credits the provider's pending earnings. The transition and the credit
// commit in one transaction: a failed attempt leaves the booking
// in_progress, so the provider can simply retry, and only one completion
// ever credits.
func (u *BookingUseCase) Complete(ctx context.Context, actor entities.Actor, code string, evidence []string) (entities.Booking, error) {
	b, err := u.loadForTransition(ctx, actor, code, entities.BookingStatusCompleted, providerOwns)
	if err != nil {
		return entities.Booking{}, err
	}

	now := u.now().UTC()
	from := b.Status
	autoConfirmAt := now.Add(entities.AutoConfirmWindow)

	b.AppendHistory(entities.BookingStatusCompleted, actor, "work completed", now)
	b.Status = entities.BookingStatusCompleted
	b.Execution.CompletedAt = &now
	if b.Execution.StartedAt != nil {
		b.Execution.ActualDuration = int64(now.Sub(*b.Execution.StartedAt) / time.Minute)
	}
	b.Execution.WorkEvidence = evidence
	b.Confirmation.AutoConfirmAt = &autoConfirmAt
	b.UpdatedAt = now

	earnings := b.Pricing.ProviderEarnings()
	updated, err := u.repo.CompleteAndCreditPending(ctx, b, from, earnings)
	if err != nil {
		u.logger.Error("completion write failed",
			zap.String("code", b.Code),
			zap.String("provider_id", b.ProviderID),
			zap.Float64("amount", earnings),
			zap.Error(err))
		return entities.Booking{}, err
	}
	if updated.Code == "" {
		return entities.Booking{}, ErrInvalidTransition
	}
	u.logger.Info("pending earnings credited",
		zap.String("code", updated.Code),
		zap.String("provider_id", updated.ProviderID),
		zap.Float64("amount", earnings))

	u.notifyAndBroadcast(ctx, updated, "booking_completed")
	return updated, nil
}

// Confirm finalizes completed work, manually by the client or automatically
// by the sweep. Both triggers share this path; the confirmation and the
// earnings release commit in one transaction, guarded so the release happens
// at most once per booking. Losing a write race to another writer (a
// concurrent confirm, a dispute, a payment webhook) re-reads and retries,
// reporting what actually happened to the booking in the meantime.
func (u *BookingUseCase) Confirm(ctx context.Context, actor entities.Actor, code string, method entities.ConfirmationMethod) (entities.Booking, error) {
	for attempt := 0; attempt < confirmRetries; attempt++ {
		b, err := u.GetByCode(ctx, code)
		if err != nil {
			return entities.Booking{}, err
		}

		switch actor.Role {
		case entities.RoleClient:
			if actor.ID != b.ClientID {
				return entities.Booking{}, ErrForbidden
			}
		case entities.RoleSystem:
			if method != entities.ConfirmationAuto {
				return entities.Booking{}, ErrForbidden
			}
		default:
			return entities.Booking{}, ErrForbidden
		}

		if b.Confirmation.ClientConfirmed {
			return entities.Booking{}, ErrAlreadyConfirmed
		}
		// A resolved dispute ends the confirmation path for good.
		if b.Status != entities.BookingStatusCompleted || b.Dispute != nil {
			return entities.Booking{}, ErrInvalidTransition
		}

		now := u.now().UTC()
		b.Confirmation.ClientConfirmed = true
		b.Confirmation.ConfirmedAt = &now
		b.Confirmation.Method = method
		b.Payment.Status = entities.PaymentStatusCompleted
		if b.Payment.PaidAt == nil {
			b.Payment.PaidAt = &now
		}
		b.AppendHistory(entities.BookingStatusCompleted, actor, "booking confirmed ("+string(method)+")", now)
		b.UpdatedAt = now

		earnings := b.Pricing.ProviderEarnings()
		updated, err := u.repo.ConfirmAndReleasePending(ctx, b, earnings)
		if err != nil {
			u.logger.Error("confirmation write failed",
				zap.String("code", b.Code),
				zap.String("provider_id", b.ProviderID),
				zap.Float64("amount", earnings),
				zap.Error(err))
			return entities.Booking{}, err
		}
		if updated.Code == "" {
			// Lost the race. The re-read at the top of the loop tells a
			// concurrent confirmation or dispute apart from a benign
			// interleaved write.
			continue
		}

		u.logger.Info("earnings confirmed",
			zap.String("code", updated.Code),
			zap.String("provider_id", updated.ProviderID),
			zap.Float64("amount", earnings),
			zap.String("method", string(method)))

		u.notifyAndBroadcast(ctx, updated, "booking_confirmed")
		return updated, nil
	}
	return entities.Booking{}, ErrInvalidTransition
}

func (u *BookingUseCase) Cancel(ctx context.Context, actor entities.Actor, code, reason string) (entities.Booking, error) {
	b, err := u.GetByCode(ctx, code)
	if err != nil {
		return entities.Booking{}, err
	}

	switch actor.Role {
	case entities.RoleClient:
		if actor.ID != b.ClientID {
			return entities.Booking{}, ErrForbidden
		}
		if !b.CanBeCancelled(u.now()) {
			return entities.Booking{}, ErrInvalidTransition
		}
	case entities.RoleAdmin:
		// Admin force-cancel skips the notice window but still needs a
		// cancellable source state.
		if !entities.CanTransition(b.Status, entities.BookingStatusCancelled) {
			return entities.Booking{}, ErrInvalidTransition
		}
	default:
		return entities.Booking{}, ErrForbidden
	}

	now := u.now().UTC()
	from := b.Status
	refund := 0.0
	if b.Payment.Status == entities.PaymentStatusCompleted {
		refund = b.Pricing.Total
	}
	b.AppendHistory(entities.BookingStatusCancelled, actor, reason, now)
	b.Status = entities.BookingStatusCancelled
	b.Cancellation = &entities.CancellationRecord{
		CancelledBy:  actor.ID,
		Reason:       reason,
		RefundAmount: refund,
		Fee:          0,
		CancelledAt:  now,
	}
	b.UpdatedAt = now

	updated, err := u.persistTransition(ctx, b, from)
	if err != nil {
		return entities.Booking{}, err
	}
	u.notifyAndBroadcast(ctx, updated, "booking_cancelled")
	return updated, nil
}

func (u *BookingUseCase) Dispute(ctx context.Context, actor entities.Actor, code string, cmd DisputeCommand) (entities.Booking, error) {
	b, err := u.GetByCode(ctx, code)
	if err != nil {
		return entities.Booking{}, err
	}
	if actor.Role != entities.RoleClient || actor.ID != b.ClientID {
		return entities.Booking{}, ErrForbidden
	}
	if b.Dispute != nil {
		return entities.Booking{}, ErrAlreadyDisputed
	}
	if !entities.CanTransition(b.Status, entities.BookingStatusDisputed) {
		return entities.Booking{}, ErrInvalidTransition
	}
	if strings.TrimSpace(cmd.Reason) == "" {
		return entities.Booking{}, ErrInvalidBookingInput
	}

	now := u.now().UTC()
	from := b.Status
	b.AppendHistory(entities.BookingStatusDisputed, actor, cmd.Reason, now)
	b.Status = entities.BookingStatusDisputed
	b.Dispute = &entities.DisputeRecord{
		DisputedBy:  actor.ID,
		Reason:      cmd.Reason,
		Description: cmd.Description,
		Evidence:    cmd.Evidence,
		OpenedAt:    now,
	}
	b.UpdatedAt = now

	updated, err := u.persistTransition(ctx, b, from)
	if err != nil {
		return entities.Booking{}, err
	}
	u.logger.Info("booking disputed",
		zap.String("code", updated.Code),
		zap.String("disputed_by", actor.ID))
	u.notifyAndBroadcast(ctx, updated, "booking_disputed")
	return updated, nil
}

// ResolveDispute is admin-only: the booking returns to completed with a
// resolution record. Money moves only through an explicit refund ledger
// entry; confirmed earnings are never clawed back automatically.
func (u *BookingUseCase) ResolveDispute(ctx context.Context, actor entities.Actor, code string, cmd ResolutionCommand) (entities.Booking, error) {
	b, err := u.GetByCode(ctx, code)
	if err != nil {
		return entities.Booking{}, err
	}
	if actor.Role != entities.RoleAdmin {
		return entities.Booking{}, ErrForbidden
	}
	if b.Status != entities.BookingStatusDisputed || b.Dispute == nil {
		return entities.Booking{}, ErrInvalidTransition
	}
	if cmd.RefundAmount < 0 || cmd.RefundAmount > b.Pricing.Total {
		return entities.Booking{}, ErrInvalidBookingInput
	}

	now := u.now().UTC()
	from := b.Status
	b.AppendHistory(entities.BookingStatusCompleted, actor, "dispute resolved", now)
	b.Status = entities.BookingStatusCompleted
	b.Dispute.Resolution = &entities.DisputeResolution{
		ResolvedBy:   actor.ID,
		RefundAmount: cmd.RefundAmount,
		Note:         cmd.Note,
		ResolvedAt:   now,
	}
	b.UpdatedAt = now

	updated, err := u.persistTransition(ctx, b, from)
	if err != nil {
		return entities.Booking{}, err
	}

	if cmd.RefundAmount > 0 {
		// At most one dispute resolution per booking, so the booking code
		// keys the refund entry and a replayed resolution dedupes on it.
		refund := entities.Payment{
			Reference:   "RF-" + updated.Code,
			UserID:      updated.ClientID,
			BookingCode: updated.Code,
			Type:        entities.PaymentTypeRefund,
			Method:      updated.Payment.Method,
			Status:      entities.PaymentStatusCompleted,
			Amount:      cmd.RefundAmount,
			Currency:    updated.Pricing.Currency,
			PaidAt:      &now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if _, err := u.payments.Create(ctx, refund); err != nil && !errors.Is(err, interfaces.ErrDuplicateReference) {
			u.logger.Error("refund ledger entry failed",
				zap.String("code", updated.Code),
				zap.Float64("amount", cmd.RefundAmount),
				zap.Error(err))
			return entities.Booking{}, err
		}
		// A full refund supersedes the original charge: flip its ledger
		// entry to refunded. Partial refunds leave it completed.
		if cmd.RefundAmount == updated.Pricing.Total && updated.Payment.Reference != "" {
			if _, err := u.payments.MarkRefundedIfCompleted(ctx, updated.Payment.Reference); err != nil {
				u.logger.Error("refund mark on original payment failed",
					zap.String("code", updated.Code),
					zap.String("reference", updated.Payment.Reference),
					zap.Error(err))
				return entities.Booking{}, err
			}
		}
		u.logger.Info("refund issued",
			zap.String("code", updated.Code),
			zap.Float64("amount", cmd.RefundAmount),
			zap.String("resolved_by", actor.ID))
	}

	u.notifyAndBroadcast(ctx, updated, "dispute_resolved")
	return updated, nil
}

type ownershipCheck func(actor entities.Actor, b entities.Booking) bool

func providerOwns(actor entities.Actor, b entities.Booking) bool {
	return actor.Role == entities.RoleProvider && actor.ID == b.ProviderID
}

// loadForTransition fetches the booking and runs the shared role and
// source-state validation for simple provider-driven transitions.
func (u *BookingUseCase) loadForTransition(ctx context.Context, actor entities.Actor, code string, target entities.BookingStatus, owns ownershipCheck) (entities.Booking, error) {
	b, err := u.GetByCode(ctx, code)
	if err != nil {
		return entities.Booking{}, err
	}
	if !owns(actor, b) {
		return entities.Booking{}, ErrForbidden
	}
	if !entities.CanTransition(b.Status, target) {
		return entities.Booking{}, ErrInvalidTransition
	}
	return b, nil
}

// persistTransition writes the mutated aggregate guarded by the status and
// version it was read at. A zero-value result means another writer got there
// first.
func (u *BookingUseCase) persistTransition(ctx context.Context, b entities.Booking, from entities.BookingStatus) (entities.Booking, error) {
	updated, err := u.repo.UpdateIfStatus(ctx, b, from)
	if err != nil {
		return entities.Booking{}, err
	}
	if updated.Code == "" {
		return entities.Booking{}, ErrInvalidTransition
	}
	return updated, nil
}

func (u *BookingUseCase) notifyAndBroadcast(ctx context.Context, b entities.Booking, event string) {
	if u.notifier != nil {
		data := map[string]interface{}{
			"booking_code": b.Code,
			"status":       string(b.Status),
		}
		u.notifier.Notify(ctx, interfaces.Notification{UserID: b.ClientID, Template: event, Data: data})
		u.notifier.Notify(ctx, interfaces.Notification{UserID: b.ProviderID, Template: event, Data: data})
	}
	if u.broadcaster != nil {
		u.broadcaster.Broadcast(ctx, "booking:"+b.Code, event, b)
	}
}

func generateBookingCode() string {
	buf := make([]byte, bookingCodeLength)
	for i := range buf {
		buf[i] = bookingCodeAlphabet[rand.Intn(len(bookingCodeAlphabet))]
	}
	return fmt.Sprintf("%s%s", bookingCodePrefix, buf)
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"servicehub/internal/domain/entities"
	"servicehub/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrProviderNotFound     = errors.New("provider not found")
	ErrUnsupportedMethod    = errors.New("unsupported payment method")
	ErrInvalidPaymentInput  = errors.New("invalid payment input")
	ErrBookingAlreadyPaid   = errors.New("booking already paid")
	ErrUnknownWebhookStatus = errors.New("unknown webhook status")
)

// PaymentCommand asks the orchestrator to charge for a booking or an
// activation fee. The amount is never taken from the caller: booking
// payments use the frozen pricing snapshot, activation fees the platform
// constant.
type PaymentCommand struct {
	BookingCode string
	Type        entities.PaymentType
	Method      entities.PaymentMethod
	Currency    string
}

type WithdrawalCommand struct {
	Amount   float64
	Method   entities.PaymentMethod
	Currency string
}

// WebhookEvent is the normalized asynchronous gateway notification.
// Deliveries may arrive zero, one or many times, in any order.
type WebhookEvent struct {
	EventID   string
	Reference string
	Status    string
	Reason    string
}

// IPaymentUseCase is the payment orchestrator: it routes payment requests
// to a gateway, records one ledger entry per attempt and reconciles
// asynchronous confirmations idempotently.
type IPaymentUseCase interface {
	Pay(ctx context.Context, actor entities.Actor, cmd PaymentCommand) (entities.Payment, error)
	HandleWebhook(ctx context.Context, ev WebhookEvent) error
	RequestWithdrawal(ctx context.Context, actor entities.Actor, cmd WithdrawalCommand) (entities.Payment, error)
	GetByReference(ctx context.Context, reference string) (entities.Payment, error)
	ListByBookingCode(ctx context.Context, code string) ([]entities.Payment, error)
}

type PaymentUseCase struct {
	repo        interfaces.IPaymentRepository
	bookings    interfaces.IBookingRepository
	providers   interfaces.IProviderRepository
	gateways    map[entities.PaymentMethod]interfaces.IPaymentGateway
	notifier    interfaces.INotifier
	broadcaster interfaces.IBroadcaster
	logger      *zap.Logger

	now func() time.Time
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(
	repo interfaces.IPaymentRepository,
	bookings interfaces.IBookingRepository,
	providers interfaces.IProviderRepository,
	gateways map[entities.PaymentMethod]interfaces.IPaymentGateway,
	notifier interfaces.INotifier,
	broadcaster interfaces.IBroadcaster,
	logger *zap.Logger,
) *PaymentUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentUseCase{
		repo:        repo,
		bookings:    bookings,
		providers:   providers,
		gateways:    gateways,
		notifier:    notifier,
		broadcaster: broadcaster,
		logger:      logger,
		now:         time.Now,
	}
}

func (u *PaymentUseCase) Pay(ctx context.Context, actor entities.Actor, cmd PaymentCommand) (entities.Payment, error) {
	gw, ok := u.gateways[cmd.Method]
	if !ok {
		return entities.Payment{}, ErrUnsupportedMethod
	}

	var (
		amount      float64
		breakdown   entities.Breakdown
		bookingCode string
		description string
	)
	switch cmd.Type {
	case entities.PaymentTypeBookingPayment:
		b, err := u.bookings.GetByCode(ctx, strings.TrimSpace(cmd.BookingCode))
		if err != nil {
			return entities.Payment{}, err
		}
		if b.Code == "" {
			return entities.Payment{}, ErrBookingNotFound
		}
		if actor.Role != entities.RoleClient || actor.ID != b.ClientID {
			return entities.Payment{}, ErrForbidden
		}
		if b.Payment.Status == entities.PaymentStatusCompleted {
			return entities.Payment{}, ErrBookingAlreadyPaid
		}
		// The source of truth for the amount is the frozen snapshot in DB.
		amount = b.Pricing.Total
		breakdown = entities.Breakdown{
			ServiceAmount: b.Pricing.ServicePrice,
			AddOnsAmount:  b.Pricing.AddOnsPrice,
			PlatformFee:   b.Pricing.PlatformFee,
		}
		bookingCode = b.Code
		description = "Booking " + b.Code
	case entities.PaymentTypeActivationFee:
		if actor.Role != entities.RoleProvider {
			return entities.Payment{}, ErrForbidden
		}
		amount = entities.ActivationFeeAmount
		breakdown = entities.Breakdown{PlatformFee: entities.ActivationFeeAmount}
		description = "Provider activation"
	default:
		return entities.Payment{}, ErrInvalidPaymentInput
	}

	u.logger.Info("payment initiate",
		zap.String("type", string(cmd.Type)),
		zap.String("method", string(cmd.Method)),
		zap.String("booking_code", bookingCode),
		zap.Float64("amount", amount))

	res, err := gw.Initiate(ctx, interfaces.GatewayRequest{
		Amount:      amount,
		Currency:    cmd.Currency,
		Description: description,
		Metadata:    map[string]string{"booking_code": bookingCode, "user_id": actor.ID},
	})
	if err != nil {
		if errors.Is(err, interfaces.ErrGatewayDeclined) {
			// A decline is a provider decision: keep the attempt on the
			// ledger, marked failed.
			failed := u.newPayment(res.Reference, actor.ID, bookingCode, cmd, amount, breakdown)
			failed.Status = entities.PaymentStatusFailed
			failed.FailReason = err.Error()
			if _, cerr := u.repo.Create(ctx, failed); cerr != nil && !errors.Is(cerr, interfaces.ErrDuplicateReference) {
				u.logger.Error("failed-attempt ledger write failed", zap.Error(cerr))
			}
			return entities.Payment{}, err
		}
		// Transport failure: nothing reached the provider, leave no ledger
		// side effect and let the caller retry.
		u.logger.Warn("gateway unavailable",
			zap.String("method", string(cmd.Method)), zap.Error(err))
		return entities.Payment{}, err
	}

	p := u.newPayment(res.Reference, actor.ID, bookingCode, cmd, amount, breakdown)
	switch res.Status {
	case interfaces.GatewayStatusCompleted:
		now := u.now().UTC()
		p.Status = entities.PaymentStatusCompleted
		p.PaidAt = &now
	case interfaces.GatewayStatusPending:
		p.Status = entities.PaymentStatusPending
	default:
		return entities.Payment{}, ErrUnknownWebhookStatus
	}

	created, err := u.repo.Create(ctx, p)
	if err != nil {
		if errors.Is(err, interfaces.ErrDuplicateReference) {
			// Retried trigger: the attempt is already on the ledger.
			return u.GetByReference(ctx, p.Reference)
		}
		return entities.Payment{}, err
	}

	if created.Status == entities.PaymentStatusCompleted {
		if err := u.applyCompletion(ctx, created); err != nil {
			return entities.Payment{}, err
		}
	}

	u.logger.Info("payment recorded",
		zap.String("reference", created.Reference),
		zap.String("status", string(created.Status)))
	return created, nil
}

// HandleWebhook reconciles an asynchronous gateway confirmation. Unknown or
// already-applied events are acknowledged silently to stop redelivery; a
// known event that fails to apply is surfaced loudly.
func (u *PaymentUseCase) HandleWebhook(ctx context.Context, ev WebhookEvent) error {
	ev.Reference = strings.TrimSpace(ev.Reference)
	if ev.Reference == "" {
		u.logger.Warn("webhook without reference, acknowledging", zap.String("event_id", ev.EventID))
		return nil
	}

	p, err := u.repo.GetByReference(ctx, ev.Reference)
	if err != nil {
		return err
	}
	if p.Reference == "" {
		u.logger.Warn("webhook for unknown payment, acknowledging",
			zap.String("reference", ev.Reference), zap.String("event_id", ev.EventID))
		return nil
	}

	switch ev.Status {
	case "completed", "approved", "succeeded":
		if p.Status == entities.PaymentStatusCompleted || p.Status == entities.PaymentStatusRefunded {
			u.logger.Info("duplicate webhook delivery, no-op",
				zap.String("reference", ev.Reference))
			return nil
		}
		updated, err := u.repo.MarkCompletedIfPending(ctx, ev.Reference, u.now().UTC())
		if err != nil {
			return err
		}
		if updated.Reference == "" {
			// Another delivery applied it first.
			return nil
		}
		if err := u.applyCompletion(ctx, updated); err != nil {
			u.logger.Error("webhook side effect failed",
				zap.String("reference", ev.Reference), zap.Error(err))
			return err
		}
		return nil
	case "failed", "rejected", "declined":
		if _, err := u.repo.MarkFailed(ctx, ev.Reference, ev.Reason); err != nil {
			return err
		}
		return nil
	default:
		u.logger.Warn("unrecognized webhook status, acknowledging",
			zap.String("reference", ev.Reference), zap.String("status", ev.Status))
		return nil
	}
}

// RequestWithdrawal settles a provider payout. The balance check and the
// deduction are one conditional update, so a concurrent dispute or second
// withdrawal cannot slip between them.
func (u *PaymentUseCase) RequestWithdrawal(ctx context.Context, actor entities.Actor, cmd WithdrawalCommand) (entities.Payment, error) {
	if actor.Role != entities.RoleProvider {
		return entities.Payment{}, ErrForbidden
	}
	if cmd.Amount <= 0 {
		return entities.Payment{}, ErrInvalidPaymentInput
	}

	fee := entities.WithdrawalFee(cmd.Amount)

	provider, err := u.providers.Get(ctx, actor.ID)
	if err != nil {
		return entities.Payment{}, err
	}
	if provider.ID == "" {
		return entities.Payment{}, ErrProviderNotFound
	}
	// Fast precheck against the wallet value; the atomic guard below is
	// authoritative.
	if _, err := entities.SettleWithdrawal(provider.Wallet, cmd.Amount, fee); err != nil {
		return entities.Payment{}, err
	}

	settled, err := u.providers.DebitBalance(ctx, actor.ID, cmd.Amount+fee)
	if err != nil {
		return entities.Payment{}, err
	}
	if settled.ID == "" {
		return entities.Payment{}, entities.ErrInsufficientBalance
	}

	now := u.now().UTC()
	p := entities.Payment{
		Reference: "WD-" + uuid.NewString(),
		UserID:    actor.ID,
		Type:      entities.PaymentTypeWithdrawal,
		Method:    cmd.Method,
		Status:    entities.PaymentStatusCompleted,
		Amount:    -cmd.Amount,
		Currency:  cmd.Currency,
		Breakdown: entities.Breakdown{PlatformFee: fee},
		PaidAt:    &now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := u.repo.Create(ctx, p)
	if err != nil {
		return entities.Payment{}, err
	}

	u.logger.Info("withdrawal settled",
		zap.String("provider_id", actor.ID),
		zap.Float64("amount", cmd.Amount),
		zap.Float64("fee", fee),
		zap.Float64("balance", settled.Wallet.Balance))
	if u.notifier != nil {
		u.notifier.Notify(ctx, interfaces.Notification{
			UserID:   actor.ID,
			Template: "withdrawal_settled",
			Data:     map[string]interface{}{"amount": cmd.Amount, "fee": fee},
		})
	}
	return created, nil
}

func (u *PaymentUseCase) GetByReference(ctx context.Context, reference string) (entities.Payment, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return entities.Payment{}, ErrInvalidPaymentInput
	}
	p, err := u.repo.GetByReference(ctx, reference)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.Reference == "" {
		return entities.Payment{}, ErrPaymentNotFound
	}
	return p, nil
}

func (u *PaymentUseCase) ListByBookingCode(ctx context.Context, code string) ([]entities.Payment, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidPaymentInput
	}
	return u.repo.ListByBookingCode(ctx, code)
}

// applyCompletion runs the purpose-specific side effect once a payment is
// durably completed: mark the booking paid or activate the provider.
func (u *PaymentUseCase) applyCompletion(ctx context.Context, p entities.Payment) error {
	switch p.Type {
	case entities.PaymentTypeBookingPayment:
		rec := entities.PaymentRecord{
			Method:    p.Method,
			Status:    entities.PaymentStatusCompleted,
			Reference: p.Reference,
			PaidAt:    p.PaidAt,
		}
		if _, err := u.bookings.UpdatePaymentRecord(ctx, p.BookingCode, rec); err != nil {
			return err
		}
		if u.broadcaster != nil {
			u.broadcaster.Broadcast(ctx, "booking:"+p.BookingCode, "payment_completed", p)
		}
	case entities.PaymentTypeActivationFee:
		if _, err := u.providers.Activate(ctx, p.UserID); err != nil {
			return err
		}
	}
	if u.notifier != nil {
		u.notifier.Notify(ctx, interfaces.Notification{
			UserID:   p.UserID,
			Template: "payment_completed",
			Data:     map[string]interface{}{"reference": p.Reference, "amount": p.Amount},
		})
	}
	return nil
}

func (u *PaymentUseCase) newPayment(reference, userID, bookingCode string, cmd PaymentCommand, amount float64, breakdown entities.Breakdown) entities.Payment {
	if reference == "" {
		reference = "PX-" + uuid.NewString()
	}
	now := u.now().UTC()
	return entities.Payment{
		Reference:   reference,
		UserID:      userID,
		BookingCode: bookingCode,
		Type:        cmd.Type,
		Method:      cmd.Method,
		Amount:      amount,
		Currency:    cmd.Currency,
		Breakdown:   breakdown,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

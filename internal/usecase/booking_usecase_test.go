package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"servicehub/internal/domain/entities"
	"servicehub/internal/usecase/interfaces"
	mock_interfaces "servicehub/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type bookingMocks struct {
	repo        *mock_interfaces.MockIBookingRepository
	payments    *mock_interfaces.MockIPaymentRepository
	notifier    *mock_interfaces.MockINotifier
	broadcaster *mock_interfaces.MockIBroadcaster
}

func newBookingUseCaseForTest(ctrl *gomock.Controller) (*BookingUseCase, bookingMocks) {
	m := bookingMocks{
		repo:        mock_interfaces.NewMockIBookingRepository(ctrl),
		payments:    mock_interfaces.NewMockIPaymentRepository(ctrl),
		notifier:    mock_interfaces.NewMockINotifier(ctrl),
		broadcaster: mock_interfaces.NewMockIBroadcaster(ctrl),
	}
	m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).AnyTimes()
	m.broadcaster.EXPECT().Broadcast(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	uc := NewBookingUseCase(m.repo, m.payments, m.notifier, m.broadcaster, nil)
	uc.now = func() time.Time { return fixedNow }
	return uc, m
}

func pendingBooking() entities.Booking {
	return entities.Booking{
		Code:        "BK-TEST01",
		ClientID:    "client-1",
		ProviderID:  "prov-1",
		ServiceID:   "svc-1",
		Status:      entities.BookingStatusPending,
		Pricing:     entities.PricingFor(200, 50, "USD"),
		ScheduledAt: fixedNow.Add(24 * time.Hour),
		CreatedAt:   fixedNow.Add(-time.Hour),
		UpdatedAt:   fixedNow.Add(-time.Hour),
	}
}

func TestBookingUseCase_CreateBooking(t *testing.T) {
	cmd := CreateBookingCommand{
		ProviderID:   "prov-1",
		ServiceID:    "svc-1",
		ServicePrice: 200,
		AddOnsPrice:  50,
		Currency:     "USD",
		ScheduledAt:  fixedNow.Add(24 * time.Hour),
	}

	t.Run("only clients create bookings", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, _ := newBookingUseCaseForTest(ctrl)

		_, err := uc.CreateBooking(context.Background(), entities.Actor{ID: "prov-1", Role: entities.RoleProvider}, cmd)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, _ := newBookingUseCaseForTest(ctrl)

		bad := cmd
		bad.ServicePrice = 0
		_, err := uc.CreateBooking(context.Background(), entities.Actor{ID: "client-1", Role: entities.RoleClient}, bad)
		if !errors.Is(err, ErrInvalidBookingInput) {
			t.Fatalf("expected ErrInvalidBookingInput, got %v", err)
		}
	})

	t.Run("freezes snapshot and retries code collisions", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		gomock.InOrder(
			m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Booking{}, interfaces.ErrBookingCodeExists),
			m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, b entities.Booking) (entities.Booking, error) {
					if !strings.HasPrefix(b.Code, "BK-") || len(b.Code) != len("BK-")+6 {
						t.Fatalf("unexpected code format: %q", b.Code)
					}
					if b.Pricing.Total != 255 || b.Pricing.PlatformFee != 5 {
						t.Fatalf("unexpected pricing: %+v", b.Pricing)
					}
					if b.Status != entities.BookingStatusPending || len(b.History) != 1 {
						t.Fatalf("unexpected initial state: %+v", b)
					}
					return b, nil
				},
			),
		)

		created, err := uc.CreateBooking(context.Background(), entities.Actor{ID: "client-1", Role: entities.RoleClient}, cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.ClientID != "client-1" {
			t.Fatalf("expected client id recorded, got %q", created.ClientID)
		}
	})

	t.Run("gives up after exhausting retries", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(entities.Booking{}, interfaces.ErrBookingCodeExists).Times(codeGenerateRetries)

		_, err := uc.CreateBooking(context.Background(), entities.Actor{ID: "client-1", Role: entities.RoleClient}, cmd)
		if !errors.Is(err, ErrCodeGenerationFailed) {
			t.Fatalf("expected ErrCodeGenerationFailed, got %v", err)
		}
	})
}

func TestBookingUseCase_Accept(t *testing.T) {
	t.Run("wrong provider forbidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(pendingBooking(), nil)

		_, err := uc.Accept(context.Background(), entities.Actor{ID: "prov-other", Role: entities.RoleProvider}, "BK-TEST01", AcceptCommand{})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-NOPE").Return(entities.Booking{}, nil)

		_, err := uc.Accept(context.Background(), entities.Actor{ID: "prov-1", Role: entities.RoleProvider}, "BK-NOPE", AcceptCommand{})
		if !errors.Is(err, ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
	})

	t.Run("illegal source state", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		b := pendingBooking()
		b.Status = entities.BookingStatusCompleted
		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(b, nil)

		_, err := uc.Accept(context.Background(), entities.Actor{ID: "prov-1", Role: entities.RoleProvider}, "BK-TEST01", AcceptCommand{})
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("success records provider response", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(pendingBooking(), nil)
		m.repo.EXPECT().UpdateIfStatus(gomock.Any(), gomock.Any(), entities.BookingStatusPending).DoAndReturn(
			func(_ context.Context, b entities.Booking, _ entities.BookingStatus) (entities.Booking, error) {
				if b.Status != entities.BookingStatusAccepted {
					t.Fatalf("expected accepted, got %s", b.Status)
				}
				if b.ProviderResponse == nil || b.ProviderResponse.Message != "on my way" {
					t.Fatalf("expected provider response recorded")
				}
				return b, nil
			},
		)

		got, err := uc.Accept(context.Background(), entities.Actor{ID: "prov-1", Role: entities.RoleProvider}, "BK-TEST01", AcceptCommand{Message: "on my way"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got.History) != 1 || got.History[0].To != entities.BookingStatusAccepted {
			t.Fatalf("expected history entry for accept")
		}
	})

	t.Run("concurrent writer wins the conditional update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(pendingBooking(), nil)
		m.repo.EXPECT().UpdateIfStatus(gomock.Any(), gomock.Any(), entities.BookingStatusPending).
			Return(entities.Booking{}, nil)

		_, err := uc.Accept(context.Background(), entities.Actor{ID: "prov-1", Role: entities.RoleProvider}, "BK-TEST01", AcceptCommand{})
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition on lost race, got %v", err)
		}
	})
}

func TestBookingUseCase_Complete(t *testing.T) {
	t.Run("opens confirmation window and credits pending earnings", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		started := fixedNow.Add(-90 * time.Minute)
		b := pendingBooking()
		b.Status = entities.BookingStatusInProgress
		b.Execution.StartedAt = &started

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(b, nil)
		m.repo.EXPECT().CompleteAndCreditPending(gomock.Any(), gomock.Any(), entities.BookingStatusInProgress, 250.0).DoAndReturn(
			func(_ context.Context, got entities.Booking, _ entities.BookingStatus, _ float64) (entities.Booking, error) {
				if got.Confirmation.AutoConfirmAt == nil || !got.Confirmation.AutoConfirmAt.Equal(fixedNow.Add(48*time.Hour)) {
					t.Fatalf("expected auto-confirm deadline 48h out, got %v", got.Confirmation.AutoConfirmAt)
				}
				if got.Execution.ActualDuration != 90 {
					t.Fatalf("expected 90 minutes actual duration, got %d", got.Execution.ActualDuration)
				}
				return got, nil
			},
		)

		_, err := uc.Complete(context.Background(), entities.Actor{ID: "prov-1", Role: entities.RoleProvider}, "BK-TEST01", []string{"photo.jpg"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("transient write failure leaves the completion retryable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		inProgress := pendingBooking()
		inProgress.Status = entities.BookingStatusInProgress
		actor := entities.Actor{ID: "prov-1", Role: entities.RoleProvider}

		// The transition and the credit land in one write, so a throttled
		// first attempt durably changes nothing: the booking is still
		// in_progress and the retry credits exactly once.
		gomock.InOrder(
			m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(inProgress, nil),
			m.repo.EXPECT().CompleteAndCreditPending(gomock.Any(), gomock.Any(), entities.BookingStatusInProgress, 250.0).
				Return(entities.Booking{}, errors.New("throttled")),
			m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(inProgress, nil),
			m.repo.EXPECT().CompleteAndCreditPending(gomock.Any(), gomock.Any(), entities.BookingStatusInProgress, 250.0).DoAndReturn(
				func(_ context.Context, got entities.Booking, _ entities.BookingStatus, _ float64) (entities.Booking, error) {
					return got, nil
				},
			),
		)

		if _, err := uc.Complete(context.Background(), actor, "BK-TEST01", nil); err == nil || err.Error() != "throttled" {
			t.Fatalf("expected throttled error surfaced, got %v", err)
		}
		got, err := uc.Complete(context.Background(), actor, "BK-TEST01", nil)
		if err != nil {
			t.Fatalf("expected retry to succeed, got %v", err)
		}
		if got.Status != entities.BookingStatusCompleted {
			t.Fatalf("expected completed after retry, got %s", got.Status)
		}
	})

	t.Run("lost write race", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		b := pendingBooking()
		b.Status = entities.BookingStatusInProgress

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(b, nil)
		m.repo.EXPECT().CompleteAndCreditPending(gomock.Any(), gomock.Any(), entities.BookingStatusInProgress, 250.0).
			Return(entities.Booking{}, nil)

		_, err := uc.Complete(context.Background(), entities.Actor{ID: "prov-1", Role: entities.RoleProvider}, "BK-TEST01", nil)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition on lost race, got %v", err)
		}
	})
}

func TestBookingUseCase_Confirm(t *testing.T) {
	completedBooking := func() entities.Booking {
		b := pendingBooking()
		b.Status = entities.BookingStatusCompleted
		deadline := fixedNow.Add(48 * time.Hour)
		b.Confirmation.AutoConfirmAt = &deadline
		return b
	}

	t.Run("stranger cannot confirm", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(completedBooking(), nil)

		_, err := uc.Confirm(context.Background(), entities.Actor{ID: "client-2", Role: entities.RoleClient}, "BK-TEST01", entities.ConfirmationManual)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("provider cannot confirm", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(completedBooking(), nil)

		_, err := uc.Confirm(context.Background(), entities.Actor{ID: "prov-1", Role: entities.RoleProvider}, "BK-TEST01", entities.ConfirmationManual)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("already confirmed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		b := completedBooking()
		b.Confirmation.ClientConfirmed = true
		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(b, nil)

		_, err := uc.Confirm(context.Background(), entities.Actor{ID: "client-1", Role: entities.RoleClient}, "BK-TEST01", entities.ConfirmationManual)
		if !errors.Is(err, ErrAlreadyConfirmed) {
			t.Fatalf("expected ErrAlreadyConfirmed, got %v", err)
		}
	})

	t.Run("dispute blocks confirmation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		b := completedBooking()
		b.Dispute = &entities.DisputeRecord{DisputedBy: "client-1", Reason: "not done", OpenedAt: fixedNow}
		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(b, nil)

		_, err := uc.Confirm(context.Background(), entities.Actor{ID: "client-1", Role: entities.RoleClient}, "BK-TEST01", entities.ConfirmationManual)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("manual confirm releases earnings once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(completedBooking(), nil)
		m.repo.EXPECT().ConfirmAndReleasePending(gomock.Any(), gomock.Any(), 250.0).DoAndReturn(
			func(_ context.Context, b entities.Booking, _ float64) (entities.Booking, error) {
				if !b.Confirmation.ClientConfirmed || b.Confirmation.Method != entities.ConfirmationManual {
					t.Fatalf("expected confirmation recorded, got %+v", b.Confirmation)
				}
				return b, nil
			},
		)

		got, err := uc.Confirm(context.Background(), entities.Actor{ID: "client-1", Role: entities.RoleClient}, "BK-TEST01", entities.ConfirmationManual)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Payment.Status != entities.PaymentStatusCompleted {
			t.Fatalf("expected payment record completed, got %s", got.Payment.Status)
		}
	})

	t.Run("losing the race to a concurrent confirm", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		confirmed := completedBooking()
		confirmed.Confirmation.ClientConfirmed = true

		gomock.InOrder(
			m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(completedBooking(), nil),
			m.repo.EXPECT().ConfirmAndReleasePending(gomock.Any(), gomock.Any(), 250.0).Return(entities.Booking{}, nil),
			m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(confirmed, nil),
		)

		_, err := uc.Confirm(context.Background(), entities.Actor{ID: "client-1", Role: entities.RoleClient}, "BK-TEST01", entities.ConfirmationManual)
		if !errors.Is(err, ErrAlreadyConfirmed) {
			t.Fatalf("expected ErrAlreadyConfirmed for the losing writer, got %v", err)
		}
	})

	t.Run("losing the race to a concurrent dispute", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		disputed := completedBooking()
		disputed.Status = entities.BookingStatusDisputed
		disputed.Dispute = &entities.DisputeRecord{DisputedBy: "client-1", Reason: "bad work", OpenedAt: fixedNow}

		gomock.InOrder(
			m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(completedBooking(), nil),
			m.repo.EXPECT().ConfirmAndReleasePending(gomock.Any(), gomock.Any(), 250.0).Return(entities.Booking{}, nil),
			m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(disputed, nil),
		)

		_, err := uc.Confirm(context.Background(), entities.Actor{ID: "client-1", Role: entities.RoleClient}, "BK-TEST01", entities.ConfirmationManual)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("interleaved payment update retries on fresh state", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		// A card webhook wrote the payment reference between the read and
		// the conditional write. The confirm loses the version check,
		// re-reads and carries the webhook's fields instead of erasing them.
		withReference := completedBooking()
		withReference.Payment.Status = entities.PaymentStatusCompleted
		withReference.Payment.Reference = "MP-77"

		gomock.InOrder(
			m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(completedBooking(), nil),
			m.repo.EXPECT().ConfirmAndReleasePending(gomock.Any(), gomock.Any(), 250.0).Return(entities.Booking{}, nil),
			m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(withReference, nil),
			m.repo.EXPECT().ConfirmAndReleasePending(gomock.Any(), gomock.Any(), 250.0).DoAndReturn(
				func(_ context.Context, b entities.Booking, _ float64) (entities.Booking, error) {
					if b.Payment.Reference != "MP-77" {
						t.Fatalf("expected webhook payment reference preserved, got %q", b.Payment.Reference)
					}
					return b, nil
				},
			),
		)

		got, err := uc.Confirm(context.Background(), entities.Actor{ID: "client-1", Role: entities.RoleClient}, "BK-TEST01", entities.ConfirmationManual)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Confirmation.ClientConfirmed {
			t.Fatalf("expected confirmation recorded")
		}
	})

	t.Run("transient write failure leaves the confirm retryable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		actor := entities.Actor{ID: "client-1", Role: entities.RoleClient}
		gomock.InOrder(
			m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(completedBooking(), nil),
			m.repo.EXPECT().ConfirmAndReleasePending(gomock.Any(), gomock.Any(), 250.0).
				Return(entities.Booking{}, errors.New("throttled")),
			m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(completedBooking(), nil),
			m.repo.EXPECT().ConfirmAndReleasePending(gomock.Any(), gomock.Any(), 250.0).DoAndReturn(
				func(_ context.Context, b entities.Booking, _ float64) (entities.Booking, error) {
					return b, nil
				},
			),
		)

		if _, err := uc.Confirm(context.Background(), actor, "BK-TEST01", entities.ConfirmationManual); err == nil || err.Error() != "throttled" {
			t.Fatalf("expected throttled error surfaced, got %v", err)
		}
		if _, err := uc.Confirm(context.Background(), actor, "BK-TEST01", entities.ConfirmationManual); err != nil {
			t.Fatalf("expected retry to succeed, got %v", err)
		}
	})

	t.Run("system auto-confirm uses the same path", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(completedBooking(), nil)
		m.repo.EXPECT().ConfirmAndReleasePending(gomock.Any(), gomock.Any(), 250.0).DoAndReturn(
			func(_ context.Context, b entities.Booking, _ float64) (entities.Booking, error) {
				if b.Confirmation.Method != entities.ConfirmationAuto {
					t.Fatalf("expected auto method, got %s", b.Confirmation.Method)
				}
				return b, nil
			},
		)

		_, err := uc.Confirm(context.Background(), entities.Actor{ID: "scheduler", Role: entities.RoleSystem}, "BK-TEST01", entities.ConfirmationAuto)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("system actor cannot confirm manually", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(completedBooking(), nil)

		_, err := uc.Confirm(context.Background(), entities.Actor{ID: "scheduler", Role: entities.RoleSystem}, "BK-TEST01", entities.ConfirmationManual)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestBookingUseCase_Cancel(t *testing.T) {
	t.Run("client inside the notice window", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		b := pendingBooking()
		b.ScheduledAt = fixedNow.Add(entities.CancellationNotice) // exactly 2h: too late
		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(b, nil)

		_, err := uc.Cancel(context.Background(), entities.Actor{ID: "client-1", Role: entities.RoleClient}, "BK-TEST01", "changed my mind")
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("client with enough notice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(pendingBooking(), nil)
		m.repo.EXPECT().UpdateIfStatus(gomock.Any(), gomock.Any(), entities.BookingStatusPending).DoAndReturn(
			func(_ context.Context, b entities.Booking, _ entities.BookingStatus) (entities.Booking, error) {
				if b.Cancellation == nil || b.Cancellation.CancelledBy != "client-1" {
					t.Fatalf("expected cancellation record")
				}
				return b, nil
			},
		)

		got, err := uc.Cancel(context.Background(), entities.Actor{ID: "client-1", Role: entities.RoleClient}, "BK-TEST01", "changed my mind")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.BookingStatusCancelled {
			t.Fatalf("expected cancelled, got %s", got.Status)
		}
	})

	t.Run("admin force-cancel skips the window", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		b := pendingBooking()
		b.Status = entities.BookingStatusAccepted
		b.ScheduledAt = fixedNow.Add(30 * time.Minute)
		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(b, nil)
		m.repo.EXPECT().UpdateIfStatus(gomock.Any(), gomock.Any(), entities.BookingStatusAccepted).DoAndReturn(
			func(_ context.Context, got entities.Booking, _ entities.BookingStatus) (entities.Booking, error) {
				return got, nil
			},
		)

		_, err := uc.Cancel(context.Background(), entities.Actor{ID: "admin-1", Role: entities.RoleAdmin}, "BK-TEST01", "fraud report")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("admin cannot cancel in-progress work", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		b := pendingBooking()
		b.Status = entities.BookingStatusInProgress
		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(b, nil)

		_, err := uc.Cancel(context.Background(), entities.Actor{ID: "admin-1", Role: entities.RoleAdmin}, "BK-TEST01", "")
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("provider cannot cancel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(pendingBooking(), nil)

		_, err := uc.Cancel(context.Background(), entities.Actor{ID: "prov-1", Role: entities.RoleProvider}, "BK-TEST01", "")
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestBookingUseCase_Dispute(t *testing.T) {
	t.Run("requires a reason", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		b := pendingBooking()
		b.Status = entities.BookingStatusCompleted
		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(b, nil)

		_, err := uc.Dispute(context.Background(), entities.Actor{ID: "client-1", Role: entities.RoleClient}, "BK-TEST01", DisputeCommand{Reason: "   "})
		if !errors.Is(err, ErrInvalidBookingInput) {
			t.Fatalf("expected ErrInvalidBookingInput, got %v", err)
		}
	})

	t.Run("already disputed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		b := pendingBooking()
		b.Status = entities.BookingStatusCompleted
		b.Dispute = &entities.DisputeRecord{DisputedBy: "client-1", Reason: "bad", OpenedAt: fixedNow}
		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(b, nil)

		_, err := uc.Dispute(context.Background(), entities.Actor{ID: "client-1", Role: entities.RoleClient}, "BK-TEST01", DisputeCommand{Reason: "again"})
		if !errors.Is(err, ErrAlreadyDisputed) {
			t.Fatalf("expected ErrAlreadyDisputed, got %v", err)
		}
	})

	t.Run("success from completed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		b := pendingBooking()
		b.Status = entities.BookingStatusCompleted
		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(b, nil)
		m.repo.EXPECT().UpdateIfStatus(gomock.Any(), gomock.Any(), entities.BookingStatusCompleted).DoAndReturn(
			func(_ context.Context, got entities.Booking, _ entities.BookingStatus) (entities.Booking, error) {
				if got.Status != entities.BookingStatusDisputed || got.Dispute == nil {
					t.Fatalf("expected disputed state, got %+v", got.Status)
				}
				return got, nil
			},
		)

		_, err := uc.Dispute(context.Background(), entities.Actor{ID: "client-1", Role: entities.RoleClient}, "BK-TEST01", DisputeCommand{Reason: "work unfinished"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestBookingUseCase_ResolveDispute(t *testing.T) {
	disputedBooking := func() entities.Booking {
		b := pendingBooking()
		b.Status = entities.BookingStatusDisputed
		b.Dispute = &entities.DisputeRecord{DisputedBy: "client-1", Reason: "bad", OpenedAt: fixedNow}
		b.Payment = entities.PaymentRecord{Method: entities.PaymentMethodCard, Status: entities.PaymentStatusCompleted, Reference: "MP-1"}
		return b
	}

	t.Run("admin only", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(disputedBooking(), nil)

		_, err := uc.ResolveDispute(context.Background(), entities.Actor{ID: "client-1", Role: entities.RoleClient}, "BK-TEST01", ResolutionCommand{})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("refund above the total", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(disputedBooking(), nil)

		_, err := uc.ResolveDispute(context.Background(), entities.Actor{ID: "admin-1", Role: entities.RoleAdmin}, "BK-TEST01", ResolutionCommand{RefundAmount: 300})
		if !errors.Is(err, ErrInvalidBookingInput) {
			t.Fatalf("expected ErrInvalidBookingInput, got %v", err)
		}
	})

	t.Run("resolution with refund writes a ledger entry", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(disputedBooking(), nil)
		m.repo.EXPECT().UpdateIfStatus(gomock.Any(), gomock.Any(), entities.BookingStatusDisputed).DoAndReturn(
			func(_ context.Context, got entities.Booking, _ entities.BookingStatus) (entities.Booking, error) {
				if got.Status != entities.BookingStatusCompleted || got.Dispute.Resolution == nil {
					t.Fatalf("expected resolved state")
				}
				return got, nil
			},
		)
		m.payments.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.Type != entities.PaymentTypeRefund || p.Amount != 100 || p.BookingCode != "BK-TEST01" {
					t.Fatalf("unexpected refund entry: %+v", p)
				}
				if p.Reference != "RF-BK-TEST01" {
					t.Fatalf("expected the booking code to key the refund, got %q", p.Reference)
				}
				return p, nil
			},
		)

		_, err := uc.ResolveDispute(context.Background(), entities.Actor{ID: "admin-1", Role: entities.RoleAdmin}, "BK-TEST01", ResolutionCommand{RefundAmount: 100, Note: "partial"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("full refund marks the original payment refunded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(disputedBooking(), nil)
		m.repo.EXPECT().UpdateIfStatus(gomock.Any(), gomock.Any(), entities.BookingStatusDisputed).DoAndReturn(
			func(_ context.Context, got entities.Booking, _ entities.BookingStatus) (entities.Booking, error) {
				return got, nil
			},
		)
		m.payments.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.Amount != 255 {
					t.Fatalf("expected the full total refunded, got %v", p.Amount)
				}
				return p, nil
			},
		)
		m.payments.EXPECT().MarkRefundedIfCompleted(gomock.Any(), "MP-1").
			Return(entities.Payment{Reference: "MP-1", Status: entities.PaymentStatusRefunded}, nil)

		_, err := uc.ResolveDispute(context.Background(), entities.Actor{ID: "admin-1", Role: entities.RoleAdmin}, "BK-TEST01", ResolutionCommand{RefundAmount: 255, Note: "charge reversed"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("zero refund skips the ledger", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newBookingUseCaseForTest(ctrl)

		m.repo.EXPECT().GetByCode(gomock.Any(), "BK-TEST01").Return(disputedBooking(), nil)
		m.repo.EXPECT().UpdateIfStatus(gomock.Any(), gomock.Any(), entities.BookingStatusDisputed).DoAndReturn(
			func(_ context.Context, got entities.Booking, _ entities.BookingStatus) (entities.Booking, error) {
				return got, nil
			},
		)

		_, err := uc.ResolveDispute(context.Background(), entities.Actor{ID: "admin-1", Role: entities.RoleAdmin}, "BK-TEST01", ResolutionCommand{Note: "provider wins"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

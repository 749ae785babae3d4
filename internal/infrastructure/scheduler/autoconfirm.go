package scheduler

import (
	"context"
	"errors"
	"time"

	"servicehub/internal/domain/entities"
	"servicehub/internal/usecase"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// systemActor drives sweep-initiated confirmations so the status history
// records who finalized the booking.
var systemActor = entities.Actor{ID: "scheduler", Role: entities.RoleSystem}

type bookingLister interface {
	ListAutoConfirmable(ctx context.Context, now time.Time, limit int) ([]entities.Booking, error)
}

type bookingConfirmer interface {
	Confirm(ctx context.Context, actor entities.Actor, code string, method entities.ConfirmationMethod) (entities.Booking, error)
}

// AutoConfirmScheduler periodically finalizes completed bookings whose
// confirmation deadline has passed without a client decision.
//
// The sweep holds no locks and makes no claim on a booking: the conditional
// confirm in the repository is the arbiter, so a client confirming (or
// disputing) between the query and the write simply makes the sweep's attempt
// a no-op.
type AutoConfirmScheduler struct {
	repo     bookingLister
	bookings bookingConfirmer
	logger   *zap.Logger

	interval    time.Duration
	batchLimit  int
	concurrency int

	stopChan chan struct{}
	doneChan chan struct{}
}

func NewAutoConfirmScheduler(
	repo bookingLister,
	bookings bookingConfirmer,
	logger *zap.Logger,
	interval time.Duration,
	batchLimit int,
	concurrency int,
) *AutoConfirmScheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if batchLimit <= 0 {
		batchLimit = 100
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &AutoConfirmScheduler{
		repo:        repo,
		bookings:    bookings,
		logger:      logger,
		interval:    interval,
		batchLimit:  batchLimit,
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}
}

// Start launches the sweep loop. It returns immediately; call Stop to shut
// the loop down.
func (s *AutoConfirmScheduler) Start() {
	go s.run()
	s.logger.Info("auto-confirm scheduler started",
		zap.Duration("interval", s.interval),
		zap.Int("batch_limit", s.batchLimit),
	)
}

// Stop signals the loop to exit and waits for the in-flight sweep to finish.
func (s *AutoConfirmScheduler) Stop() {
	close(s.stopChan)
	<-s.doneChan
	s.logger.Info("auto-confirm scheduler stopped")
}

func (s *AutoConfirmScheduler) run() {
	defer close(s.doneChan)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopChan:
			return
		}
	}
}

// Sweep runs one pass over overdue bookings. Per-booking failures are logged
// and never abort the pass: a booking that cannot be confirmed now is picked
// up again on the next tick.
func (s *AutoConfirmScheduler) Sweep(ctx context.Context) {
	due, err := s.repo.ListAutoConfirmable(ctx, time.Now(), s.batchLimit)
	if err != nil {
		s.logger.Error("auto-confirm query failed", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	s.logger.Info("auto-confirm sweep", zap.Int("due", len(due)))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, b := range due {
		code := b.Code
		g.Go(func() error {
			s.confirmOne(ctx, code)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *AutoConfirmScheduler) confirmOne(ctx context.Context, code string) {
	_, err := s.bookings.Confirm(ctx, systemActor, code, entities.ConfirmationAuto)
	switch {
	case err == nil:
		s.logger.Info("booking auto-confirmed", zap.String("code", code))
	case errors.Is(err, usecase.ErrAlreadyConfirmed),
		errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrBookingNotFound):
		// Someone got there first (manual confirm, dispute, or another
		// sweep instance). Nothing to do.
	default:
		s.logger.Error("auto-confirm failed",
			zap.String("code", code),
			zap.Error(err),
		)
	}
}

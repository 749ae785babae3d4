package notify

import (
	"context"
	"encoding/json"
	"time"

	"servicehub/internal/usecase/interfaces"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	notificationQueue = "notifications:queue"
	dispatchTimeout   = 2 * time.Second
)

// Dispatcher enqueues user notifications on a Redis list consumed by the
// delivery workers (push, email, SMS). Enqueueing is fire-and-forget: a full
// or unreachable queue is logged and the booking flow carries on.
type Dispatcher struct {
	rdb    *redis.Client
	logger *zap.Logger
}

var _ interfaces.INotifier = (*Dispatcher)(nil)

func NewDispatcher(rdb *redis.Client, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{rdb: rdb, logger: logger}
}

type notificationJob struct {
	UserID     string                 `json:"user_id"`
	Template   string                 `json:"template"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Language   string                 `json:"language,omitempty"`
	EnqueuedAt time.Time              `json:"enqueued_at"`
}

func (d *Dispatcher) Notify(ctx context.Context, n interfaces.Notification) {
	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	job, err := json.Marshal(notificationJob{
		UserID:     n.UserID,
		Template:   n.Template,
		Data:       n.Data,
		Language:   n.Language,
		EnqueuedAt: time.Now().UTC(),
	})
	if err != nil {
		d.logger.Error("notification marshal failed",
			zap.String("user_id", n.UserID),
			zap.String("template", n.Template),
			zap.Error(err),
		)
		return
	}

	if err := d.rdb.LPush(ctx, notificationQueue, job).Err(); err != nil {
		d.logger.Error("notification enqueue failed",
			zap.String("user_id", n.UserID),
			zap.String("template", n.Template),
			zap.Error(err),
		)
	}
}

package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"servicehub/internal/usecase/interfaces"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const broadcastTimeout = 2 * time.Second

// Hub broadcasts booking lifecycle events over Redis pub/sub and tracks room
// membership in Redis sets, so any API instance can fan out to clients
// connected elsewhere.
type Hub struct {
	rdb    *redis.Client
	logger *zap.Logger
}

var _ interfaces.IBroadcaster = (*Hub)(nil)

func NewHub(rdb *redis.Client, logger *zap.Logger) *Hub {
	return &Hub{rdb: rdb, logger: logger}
}

// Join registers a user in a booking room.
func (h *Hub) Join(ctx context.Context, room, userID string) error {
	return h.rdb.SAdd(ctx, presenceKey(room), userID).Err()
}

// Leave removes a user from a booking room.
func (h *Hub) Leave(ctx context.Context, room, userID string) error {
	return h.rdb.SRem(ctx, presenceKey(room), userID).Err()
}

// Members lists the users currently in a room.
func (h *Hub) Members(ctx context.Context, room string) ([]string, error) {
	return h.rdb.SMembers(ctx, presenceKey(room)).Result()
}

// Broadcast publishes an event to a room channel. Best effort: failures are
// logged, never surfaced, because the state change already happened.
func (h *Hub) Broadcast(ctx context.Context, room, event string, payload interface{}) {
	ctx, cancel := context.WithTimeout(ctx, broadcastTimeout)
	defer cancel()

	msg, err := json.Marshal(map[string]interface{}{
		"event":   event,
		"payload": payload,
	})
	if err != nil {
		h.logger.Error("broadcast payload marshal failed",
			zap.String("room", room),
			zap.String("event", event),
			zap.Error(err),
		)
		return
	}

	if err := h.rdb.Publish(ctx, channelKey(room), msg).Err(); err != nil {
		h.logger.Error("broadcast publish failed",
			zap.String("room", room),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}

func presenceKey(room string) string {
	return fmt.Sprintf("room:%s:members", room)
}

func channelKey(room string) string {
	return fmt.Sprintf("room:%s:events", room)
}

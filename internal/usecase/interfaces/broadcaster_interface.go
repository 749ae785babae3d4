package interfaces

import "context"

// IBroadcaster pushes realtime events to booking rooms. Best effort and
// outside the consistency boundary: callers broadcast only after the state
// change is durably persisted.
type IBroadcaster interface {
	Broadcast(ctx context.Context, room, event string, payload interface{})
}

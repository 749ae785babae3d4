package interfaces

import "context"

// Notification is a fire-and-forget message handed to the dispatcher.
type Notification struct {
	UserID   string
	Template string
	Data     map[string]interface{}
	Language string
}

// INotifier dispatches user notifications. Delivery is best effort:
// implementations log failures and never block a booking transition.
type INotifier interface {
	Notify(ctx context.Context, n Notification)
}

package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
)

// NotificationRepository persists per-recipient notifications produced by the fan-out
// projection. Writes here are deliberately decoupled from order writes: a failed
// notification insert never rolls back the status transition that caused it.
type NotificationRepository interface {
	// Add persists a new notification. Add is idempotent on id: inserting an id
	// that already exists is a no-op, which lets the fan-out projection use
	// deterministic ids and absorb at-least-once event redelivery.
	Add(ctx context.Context, n *notification.Notification) error

	// Get retrieves a notification by id, or ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error)

	// GetByRecipient retrieves a recipient's notifications, newest first.
	GetByRecipient(ctx context.Context, recipientID kernel.UUID) ([]*notification.Notification, error)

	// Update persists changes to an existing notification (the read flag).
	Update(ctx context.Context, n *notification.Notification) error
}

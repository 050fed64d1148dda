// Package notification contains the per-recipient notification entity produced by the
// fan-out projection. Notifications are owned by their recipient: only the recipient
// marks them read, and nothing else ever mutates them.
package notification

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrNotificationIsNotConstructed is returned when a Notification was not created
// through NewNotification or RestoreNotification.
var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification or RestoreNotification")

// ErrNotRecipient is returned when someone other than the recipient tries to mark a
// notification read.
var ErrNotRecipient = errors.New("only the recipient may mark a notification read")

// Notification is a single message for a single recipient about one order.
type Notification struct {
	id          kernel.UUID
	recipientID kernel.UUID
	orderID     kernel.UUID
	title       string
	message     string
	read        bool
	createdAt   time.Time

	isConstructed bool
}

// NewNotification creates an unread notification.
func NewNotification(
	id kernel.UUID,
	recipientID kernel.UUID,
	orderID kernel.UUID,
	title string,
	message string,
	now time.Time,
) (*Notification, error) {
	n := &Notification{
		createdAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		n.setID(id),
		n.setRecipientID(recipientID),
		n.setOrderID(orderID),
		n.setTitle(title),
	); err != nil {
		return nil, err
	}

	n.message = message
	return n, nil
}

// RestoreNotification reconstructs a Notification from persistence.
func RestoreNotification(
	id kernel.UUID,
	recipientID kernel.UUID,
	orderID kernel.UUID,
	title string,
	message string,
	read bool,
	createdAt time.Time,
) (*Notification, error) {
	n, err := NewNotification(id, recipientID, orderID, title, message, createdAt)
	if err != nil {
		return nil, err
	}
	n.read = read
	return n, nil
}

// Validate ensures the Notification was properly constructed.
func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

// ID returns the notification's unique identifier.
func (n *Notification) ID() kernel.UUID {
	return n.id
}

// RecipientID returns the identifier of the user this notification belongs to.
func (n *Notification) RecipientID() kernel.UUID {
	return n.recipientID
}

// OrderID returns the related order's identifier.
func (n *Notification) OrderID() kernel.UUID {
	return n.orderID
}

// Title returns the short headline.
func (n *Notification) Title() string {
	return n.title
}

// Message returns the notification body.
func (n *Notification) Message() string {
	return n.message
}

// IsRead reports whether the recipient has marked the notification read.
func (n *Notification) IsRead() bool {
	return n.read
}

// CreatedAt returns the creation timestamp.
func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

// MarkRead marks the notification read on behalf of readerID.
// Marking an already-read notification again is a no-op, not an error.
func (n *Notification) MarkRead(readerID kernel.UUID) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if !n.recipientID.IsEqual(readerID) {
		return ErrNotRecipient
	}
	n.read = true
	return nil
}

func (n *Notification) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	n.id = id
	return nil
}

func (n *Notification) setRecipientID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("recipient id", err)
	}
	n.recipientID = id
	return nil
}

func (n *Notification) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order id", err)
	}
	n.orderID = id
	return nil
}

func (n *Notification) setTitle(title string) error {
	if title == "" {
		return errs.NewValueIsRequiredError("title")
	}
	n.title = title
	return nil
}

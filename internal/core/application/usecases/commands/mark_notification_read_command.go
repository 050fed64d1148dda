package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
)

var ErrMarkNotificationReadCommandIsNotConstructed = errors.New(
	"MarkNotificationReadCommand must be created via NewMarkNotificationReadCommand constructor",
)

// MarkNotificationReadCommand represents a recipient marking one of their
// notifications as read.
type MarkNotificationReadCommand struct {
	notificationID kernel.UUID
	readerID       kernel.UUID

	isConstructed bool
}

// NewMarkNotificationReadCommand creates a validated mark-read command.
func NewMarkNotificationReadCommand(notificationID, readerID kernel.UUID) (MarkNotificationReadCommand, error) {
	if err := notificationID.Validate(); err != nil {
		return MarkNotificationReadCommand{}, err
	}
	if err := readerID.Validate(); err != nil {
		return MarkNotificationReadCommand{}, err
	}

	return MarkNotificationReadCommand{
		notificationID: notificationID,
		readerID:       readerID,
		isConstructed:  true,
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkNotificationReadCommand) Validate() error {
	if !c.isConstructed {
		return ErrMarkNotificationReadCommandIsNotConstructed
	}
	return nil
}

// NotificationID returns the notification to mark read.
func (c MarkNotificationReadCommand) NotificationID() kernel.UUID {
	return c.notificationID
}

// ReaderID returns the identity claiming to be the recipient.
func (c MarkNotificationReadCommand) ReaderID() kernel.UUID {
	return c.readerID
}

package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/kernel"
)

var ErrGetNotificationsQueryIsNotConstructed = errors.New(
	"GetNotificationsQuery must be created via NewGetNotificationsQuery constructor",
)

// GetNotificationsQuery retrieves a recipient's notifications, newest first.
// Couriers and admins additionally see their role's shared broadcast inbox.
type GetNotificationsQuery struct {
	recipientID kernel.UUID
	role        actor.Role

	isConstructed bool
}

// NewGetNotificationsQuery creates a validated notifications query.
func NewGetNotificationsQuery(recipientID kernel.UUID, role actor.Role) (GetNotificationsQuery, error) {
	if err := recipientID.Validate(); err != nil {
		return GetNotificationsQuery{}, err
	}
	if err := role.Validate(); err != nil {
		return GetNotificationsQuery{}, err
	}

	return GetNotificationsQuery{
		recipientID:   recipientID,
		role:          role,
		isConstructed: true,
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetNotificationsQuery) Validate() error {
	if !q.isConstructed {
		return ErrGetNotificationsQueryIsNotConstructed
	}
	return nil
}

// RecipientID returns the recipient whose notifications are requested.
func (q GetNotificationsQuery) RecipientID() kernel.UUID {
	return q.recipientID
}

// Role returns the recipient's role.
func (q GetNotificationsQuery) Role() actor.Role {
	return q.role
}

// GetNotificationsQueryResponse is one notification in the recipient's inbox.
type GetNotificationsQueryResponse struct {
	ID        kernel.UUID
	OrderID   kernel.UUID
	Title     string
	Message   string
	Read      bool
	CreatedAt time.Time
}

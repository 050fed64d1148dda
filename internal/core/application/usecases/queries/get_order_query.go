// Package queries contains read operations for the order lifecycle service.
// Implements the Query pattern for the read side of the CQRS architecture: handlers
// go straight to the database and return plain response structs, bypassing the
// aggregate layer.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/kernel"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order on behalf of a requester. Visibility is
// role-scoped: participants (customer, restaurant, assigned courier) and admins see
// the order, everyone else gets not-found rather than a hint that the order exists.
type GetOrderQuery struct {
	orderID   kernel.UUID
	requester actor.Actor

	isConstructed bool
}

// NewGetOrderQuery creates a validated get-order query.
func NewGetOrderQuery(orderID kernel.UUID, requester actor.Actor) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	if err := requester.Role.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	if err := requester.ID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID:       orderID,
		requester:     requester,
		isConstructed: true,
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	if !q.isConstructed {
		return ErrGetOrderQueryIsNotConstructed
	}
	return nil
}

// OrderID returns the requested order's identifier.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Requester returns the identity asking for the order.
func (q GetOrderQuery) Requester() actor.Actor {
	return q.requester
}

// ActionResponse is one transition the requesting role may perform on the order in
// its current status, carried so clients can render role-appropriate buttons.
type ActionResponse struct {
	ToStatus string
	Label    string
}

// GetOrderQueryResponse is the full order read model.
type GetOrderQueryResponse struct {
	ID               kernel.UUID
	CustomerID       kernel.UUID
	RestaurantID     kernel.UUID
	CourierID        *kernel.UUID
	Status           string
	TotalPriceCents  int64
	DeliveryAddress  string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	AvailableActions []ActionResponse
}

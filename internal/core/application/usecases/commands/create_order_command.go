package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a customer's request to place a new order.
// The resulting order always starts in pending status; callers cannot choose.
type CreateOrderCommand struct {
	orderID         kernel.UUID
	customer        actor.Actor
	restaurantID    kernel.UUID
	totalPriceCents int64
	deliveryAddress string
	notes           string

	isConstructed bool
}

// NewCreateOrderCommand creates a validated order creation command.
// Only customers may place orders.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customer actor.Actor,
	restaurantID kernel.UUID,
	totalPriceCents int64,
	deliveryAddress string,
	notes string,
) (CreateOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CreateOrderCommand{}, err
	}
	if err := restaurantID.Validate(); err != nil {
		return CreateOrderCommand{}, errs.NewValueIsRequiredErrorWithCause("restaurant id", err)
	}
	if customer.Role != actor.RoleCustomer {
		return CreateOrderCommand{}, errs.NewValueIsInvalidError("actor role")
	}
	if err := customer.ID.Validate(); err != nil {
		return CreateOrderCommand{}, errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}

	return CreateOrderCommand{
		orderID:         orderID,
		customer:        customer,
		restaurantID:    restaurantID,
		totalPriceCents: totalPriceCents,
		deliveryAddress: deliveryAddress,
		notes:           notes,
		isConstructed:   true,
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	if !c.isConstructed {
		return ErrCreateOrderCommandIsNotConstructed
	}
	return nil
}

// OrderID returns the identifier the new order will carry.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Customer returns the placing customer.
func (c CreateOrderCommand) Customer() actor.Actor {
	return c.customer
}

// RestaurantID returns the restaurant that will prepare the order.
func (c CreateOrderCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

// TotalPriceCents returns the order total in integer cents.
func (c CreateOrderCommand) TotalPriceCents() int64 {
	return c.totalPriceCents
}

// DeliveryAddress returns the free-text delivery address.
func (c CreateOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

// Notes returns the customer's free-text notes.
func (c CreateOrderCommand) Notes() string {
	return c.notes
}

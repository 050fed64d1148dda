package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrClaimOrderCommandIsNotConstructed = errors.New(
	"ClaimOrderCommand must be created via NewClaimOrderCommand constructor",
)

// ClaimOrderCommand represents a courier's request to become the exclusive assignee
// of a ready order.
type ClaimOrderCommand struct {
	orderID kernel.UUID
	courier actor.Actor

	isConstructed bool
}

// NewClaimOrderCommand creates a validated claim command. Only couriers may claim.
func NewClaimOrderCommand(orderID kernel.UUID, courier actor.Actor) (ClaimOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ClaimOrderCommand{}, err
	}
	if courier.Role != actor.RoleCourier {
		return ClaimOrderCommand{}, errs.NewValueIsInvalidError("actor role")
	}
	if err := courier.ID.Validate(); err != nil {
		return ClaimOrderCommand{}, errs.NewValueIsRequiredErrorWithCause("courier id", err)
	}

	return ClaimOrderCommand{
		orderID:       orderID,
		courier:       courier,
		isConstructed: true,
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ClaimOrderCommand) Validate() error {
	if !c.isConstructed {
		return ErrClaimOrderCommandIsNotConstructed
	}
	return nil
}

// OrderID returns the identifier of the order being claimed.
func (c ClaimOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Courier returns the claiming courier.
func (c ClaimOrderCommand) Courier() actor.Actor {
	return c.courier
}

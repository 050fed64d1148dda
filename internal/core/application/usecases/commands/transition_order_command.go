package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// ErrClaimRequired is returned when a transition into out_for_delivery is requested
// through the generic transition flow. Claims carry the one-active-delivery rule and
// must go through the dispatch coordinator (ClaimOrderCommand).
var ErrClaimRequired = errors.New("claiming an order must go through the dispatch coordinator")

// TransitionOrderCommand represents an actor's request to move an order to a new
// status. The expected current status is derived by the handler from a fresh read,
// so a race with another actor surfaces as StaleTransitionError at write time.
type TransitionOrderCommand struct {
	orderID   kernel.UUID
	newStatus order.Status
	requester actor.Actor

	isConstructed bool
}

// NewTransitionOrderCommand creates a validated transition command.
func NewTransitionOrderCommand(orderID kernel.UUID, newStatus order.Status, requester actor.Actor) (TransitionOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return TransitionOrderCommand{}, err
	}
	if err := newStatus.Validate(); err != nil {
		return TransitionOrderCommand{}, err
	}
	if err := requester.Role.Validate(); err != nil {
		return TransitionOrderCommand{}, err
	}
	if err := requester.ID.Validate(); err != nil {
		return TransitionOrderCommand{}, err
	}

	return TransitionOrderCommand{
		orderID:       orderID,
		newStatus:     newStatus,
		requester:     requester,
		isConstructed: true,
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	if !c.isConstructed {
		return ErrTransitionOrderCommandIsNotConstructed
	}
	return nil
}

// OrderID returns the target order's identifier.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// NewStatus returns the requested target status.
func (c TransitionOrderCommand) NewStatus() order.Status {
	return c.newStatus
}

// Requester returns the acting identity.
func (c TransitionOrderCommand) Requester() actor.Actor {
	return c.requester
}

package order

import (
	"time"

	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/kernel"
)

// Event records one committed status change. Exactly one Event exists per successful
// conditional write, produced by the store itself so no event is lost or duplicated
// relative to the persisted fact.
//
// Events are ephemeral: they are delivered at-least-once to subscribers registered at
// publish time and are not durably retained. Subscribers must treat re-delivery as a
// no-op, which holds because applying "status already equals NewStatus" changes
// nothing.
type Event struct {
	OrderID      kernel.UUID
	RestaurantID kernel.UUID
	CustomerID   kernel.UUID
	// CourierID is the courier attached after the transition. For cancellations it
	// carries the courier the cancellation detached, if any.
	CourierID    *kernel.UUID
	OldStatus    Status
	NewStatus    Status
	ActorRole    actor.Role
	OccurredAt   time.Time
}

// NewEvent builds the Event for a committed transition on the given order.
// The order must already reflect the new status.
func NewEvent(o *Order, oldStatus Status, role actor.Role, occurredAt time.Time) Event {
	return Event{
		OrderID:      o.ID(),
		RestaurantID: o.RestaurantID(),
		CustomerID:   o.CustomerID(),
		CourierID:    o.CourierID(),
		OldStatus:    oldStatus,
		NewStatus:    o.Status(),
		ActorRole:    role,
		OccurredAt:   occurredAt,
	}
}

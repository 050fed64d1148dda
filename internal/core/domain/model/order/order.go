package order

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created through
// NewOrder or RestoreOrder. This ensures all orders are properly validated.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root of the delivery lifecycle.
//
// Invariants:
//   - identity, customer and restaurant are valid, immutable identifiers
//   - status is always a member of the closed enumeration
//   - a courier is attached if and only if status is out_for_delivery or delivered
//   - total price is positive
//   - orders are never deleted; they end in a terminal status
//
// Status changes go through TransitionTo, which consults the Graph. The aggregate does
// not resolve write races - that is the store's conditional write - but it guarantees
// that any state it holds is internally consistent.
type Order struct {
	id           kernel.UUID
	restaurantID kernel.UUID
	customerID   kernel.UUID
	courierID    *kernel.UUID

	status          Status
	totalPriceCents int64
	deliveryAddress string
	notes           string

	createdAt time.Time
	updatedAt time.Time

	// isConstructed ensures the order was created via NewOrder or RestoreOrder
	isConstructed bool
}

// NewOrder creates a new Order in status pending with no courier attached.
// Status is forced: callers cannot create an order mid-lifecycle.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	totalPriceCents int64,
	deliveryAddress string,
	notes string,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        StatusPending,
		notes:         notes,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setRestaurantID(restaurantID),
		o.setTotalPrice(totalPriceCents),
		o.setDeliveryAddress(deliveryAddress),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order from persistence. Unlike NewOrder it accepts any
// status, but it re-checks the courier consistency invariant so corrupted rows never
// become live aggregates.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	courierID *kernel.UUID,
	status Status,
	totalPriceCents int64,
	deliveryAddress string,
	notes string,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := status.ValidateCanHaveCourier(courierID != nil); err != nil {
		return nil, err
	}
	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return nil, err
		}
	}

	o, err := NewOrder(id, customerID, restaurantID, totalPriceCents, deliveryAddress, notes, createdAt)
	if err != nil {
		return nil, err
	}

	o.status = status
	o.courierID = courierID
	o.updatedAt = updatedAt
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the identifier of the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// RestaurantID returns the identifier of the restaurant preparing the order.
func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// CourierID returns the assigned courier's identifier, nil while unassigned.
func (o *Order) CourierID() *kernel.UUID {
	return o.courierID
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// TotalPriceCents returns the order total in integer cents.
func (o *Order) TotalPriceCents() int64 {
	return o.totalPriceCents
}

// DeliveryAddress returns the free-text delivery address.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// Notes returns the customer's free-text notes.
func (o *Order) Notes() string {
	return o.notes
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the timestamp of the last committed change.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// TransitionTo applies a validated status change and returns the resulting Event.
//
// The graph authorizes the edge for the acting role. Entering out_for_delivery
// attaches the acting courier atomically with the status change; entering cancelled
// detaches any courier, keeping the courier/status invariant two-sided. Rejections
// are InvalidTransitionError; the caller's state is untouched on any error.
func (o *Order) TransitionTo(g *Graph, to Status, act actor.Actor, now time.Time) (Event, error) {
	if err := o.Validate(); err != nil {
		return Event{}, err
	}
	if err := act.Role.Validate(); err != nil {
		return Event{}, err
	}

	if _, err := g.Authorize(o.status, to, act.Role); err != nil {
		return Event{}, err
	}

	oldStatus := o.status
	detached := o.courierID

	switch to {
	case StatusOutForDelivery:
		if err := act.ID.Validate(); err != nil {
			return Event{}, errs.NewValueIsRequiredErrorWithCause("courier id", err)
		}
		courierID := act.ID
		o.courierID = &courierID
	case StatusCancelled:
		o.courierID = nil
	}

	o.status = to
	o.updatedAt = now

	ev := NewEvent(o, oldStatus, act.Role, now)
	if to == StatusCancelled {
		// The event keeps the courier the cancellation detached, so that courier
		// can still be told their delivery is gone.
		ev.CourierID = detached
	}
	return ev, nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurant id", err)
	}
	o.restaurantID = id
	return nil
}

func (o *Order) setTotalPrice(cents int64) error {
	if cents <= 0 {
		return errs.NewValueIsOutOfRangeError("total price", cents, 1, int64(1<<62))
	}
	o.totalPriceCents = cents
	return nil
}

func (o *Order) setDeliveryAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	o.deliveryAddress = address
	return nil
}

package services

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// DispatchRules is the domain service guarding courier claims.
//
// The claim race itself is resolved by the store's conditional write; what lives here
// is the business rule layered on top: a courier holds at most one active delivery at
// a time. The rule sits outside the Order aggregate because it reasons over the set of
// a courier's orders, and outside the store so it can be tested and changed without
// touching persistence.
type DispatchRules struct{}

// NewDispatchRules creates a DispatchRules instance.
func NewDispatchRules() DispatchRules {
	return DispatchRules{}
}

// ValidateCanClaim checks whether a courier may attempt a claim given their currently
// active deliveries. Returns CourierBusyError naming the blocking order when the
// courier already holds one; the claim attempt must then be rejected before any write.
func (DispatchRules) ValidateCanClaim(courierID kernel.UUID, activeDeliveries []*order.Order) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	for _, active := range activeDeliveries {
		if err := active.Validate(); err != nil {
			return err
		}

		if active.Status() != order.StatusOutForDelivery {
			continue
		}
		if held := active.CourierID(); held != nil && held.IsEqual(courierID) {
			return order.NewCourierBusyError(courierID, active.ID())
		}
	}

	return nil
}

// Package ports defines the contracts between the order lifecycle core and its
// adapters: persistence, event transport, and identity resolution. These interfaces
// establish dependency inversion so the core never imports an adapter.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// UpdateStatusRequest describes one conditional status write.
//
// ExpectedStatus is the caller's precondition: the write succeeds only if the stored
// status still equals it at commit time. CourierID must be set exactly when the new
// status requires a courier and none is attached yet (the claim transition); the store
// writes it in the same atomic update as the status.
type UpdateStatusRequest struct {
	OrderID        kernel.UUID
	ExpectedStatus order.Status
	NewStatus      order.Status
	Actor          actor.Actor
	CourierID      *kernel.UUID
}

// OrderRepository is the authoritative store of orders.
//
// UpdateStatus is the only mutation after creation and it is a conditional
// (compare-and-swap) write, linearizable per order id: of any number of concurrent
// calls with the same precondition, exactly one succeeds and the rest fail with
// StaleTransitionError. Every successful write produces exactly one order.Event,
// generated by the store itself and handed to the unit of work's event tracker, so no
// event is ever lost or duplicated relative to the persisted fact.
type OrderRepository interface {
	// Add persists a new order aggregate. The order must be valid and new.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id, or ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAvailable retrieves orders in ready status with no courier attached,
	// oldest first. This is the pool couriers poll for claims.
	GetAvailable(ctx context.Context) ([]*order.Order, error)

	// GetActiveByCourier retrieves the courier's orders currently out for delivery.
	GetActiveByCourier(ctx context.Context, courierID kernel.UUID) ([]*order.Order, error)

	// UpdateStatus performs the conditional write described by req and returns the
	// updated aggregate. It fails with ObjectNotFoundError when the order does not
	// exist and with StaleTransitionError when the precondition no longer holds.
	// It never checks the status graph: legality is validated before the write.
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*order.Order, error)
}

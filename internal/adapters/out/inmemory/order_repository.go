// Package inmemory provides a process-local order store with the same conditional
// write semantics as the postgres adapter. It backs tests and local runs that need
// real compare-and-swap behavior without a database.
package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// row is one order's persisted state. Rows are copied in and out so callers never
// share mutable aggregates with the store.
type row struct {
	id              kernel.UUID
	customerID      kernel.UUID
	restaurantID    kernel.UUID
	courierID       *kernel.UUID
	status          order.Status
	totalPriceCents int64
	deliveryAddress string
	notes           string
	createdAt       time.Time
	updatedAt       time.Time
}

// Store holds orders behind a single mutex. Each repository operation is atomic,
// which is exactly the guarantee UpdateStatus needs.
type Store struct {
	mu     sync.Mutex
	orders map[kernel.UUID]row
}

// NewStore creates an empty in-memory order store.
func NewStore() *Store {
	return &Store{orders: make(map[kernel.UUID]row)}
}

type eventTracker interface {
	TrackEvent(event order.Event)
}

// OrderRepository adapts a Store to ports.OrderRepository. Events produced by
// conditional writes go to the tracker, same as the postgres repository.
type OrderRepository struct {
	store   *Store
	tracker eventTracker
}

// NewOrderRepository creates a repository over the shared store.
func NewOrderRepository(store *Store, tracker eventTracker) *OrderRepository {
	return &OrderRepository{store: store, tracker: tracker}
}

// Add persists a new order.
func (r *OrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orders[aggregate.ID()] = fromDomain(aggregate)
	return nil
}

// Get retrieves an order by id.
func (r *OrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.store.mu.Lock()
	stored, ok := r.store.orders[id]
	r.store.mu.Unlock()

	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return stored.toDomain()
}

// GetAvailable retrieves unassigned ready orders, oldest first.
func (r *OrderRepository) GetAvailable(_ context.Context) ([]*order.Order, error) {
	r.store.mu.Lock()
	var matched []row
	for _, stored := range r.store.orders {
		if stored.status == order.StatusReady && stored.courierID == nil {
			matched = append(matched, stored)
		}
	}
	r.store.mu.Unlock()

	sortByCreation(matched)
	return toDomainSlice(matched)
}

// GetActiveByCourier retrieves the courier's orders currently out for delivery.
func (r *OrderRepository) GetActiveByCourier(_ context.Context, courierID kernel.UUID) ([]*order.Order, error) {
	r.store.mu.Lock()
	var matched []row
	for _, stored := range r.store.orders {
		if stored.status == order.StatusOutForDelivery &&
			stored.courierID != nil && stored.courierID.IsEqual(courierID) {
			matched = append(matched, stored)
		}
	}
	r.store.mu.Unlock()

	sortByCreation(matched)
	return toDomainSlice(matched)
}

// UpdateStatus performs the conditional write under the store mutex: the status
// check and the overwrite are one atomic step, so concurrent claimants with the
// same precondition cannot both succeed.
func (r *OrderRepository) UpdateStatus(_ context.Context, req ports.UpdateStatusRequest) (*order.Order, error) {
	if err := req.OrderID.Validate(); err != nil {
		return nil, err
	}
	if err := req.NewStatus.Validate(); err != nil {
		return nil, err
	}
	if err := req.Actor.Role.Validate(); err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.orders[req.OrderID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", req.OrderID.String())
	}
	if stored.status != req.ExpectedStatus {
		return nil, order.NewStaleTransitionError(req.OrderID, req.ExpectedStatus)
	}

	detached := stored.courierID

	now := time.Now().UTC()
	stored.status = req.NewStatus
	stored.updatedAt = now
	switch {
	case req.CourierID != nil:
		id := *req.CourierID
		stored.courierID = &id
	case req.NewStatus == order.StatusCancelled:
		stored.courierID = nil
	}
	r.store.orders[req.OrderID] = stored

	updated, err := stored.toDomain()
	if err != nil {
		return nil, err
	}

	ev := order.NewEvent(updated, req.ExpectedStatus, req.Actor.Role, now)
	if req.NewStatus == order.StatusCancelled && detached != nil {
		ev.CourierID = detached
	}
	r.tracker.TrackEvent(ev)

	return updated, nil
}

func fromDomain(o *order.Order) row {
	stored := row{
		id:              o.ID(),
		customerID:      o.CustomerID(),
		restaurantID:    o.RestaurantID(),
		status:          o.Status(),
		totalPriceCents: o.TotalPriceCents(),
		deliveryAddress: o.DeliveryAddress(),
		notes:           o.Notes(),
		createdAt:       o.CreatedAt(),
		updatedAt:       o.UpdatedAt(),
	}
	if o.CourierID() != nil {
		id := *o.CourierID()
		stored.courierID = &id
	}
	return stored
}

func (stored row) toDomain() (*order.Order, error) {
	var courierID *kernel.UUID
	if stored.courierID != nil {
		id := *stored.courierID
		courierID = &id
	}
	return order.RestoreOrder(
		stored.id,
		stored.customerID,
		stored.restaurantID,
		courierID,
		stored.status,
		stored.totalPriceCents,
		stored.deliveryAddress,
		stored.notes,
		stored.createdAt,
		stored.updatedAt,
	)
}

func sortByCreation(rows []row) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].createdAt.Equal(rows[j].createdAt) {
			return rows[i].id.String() < rows[j].id.String()
		}
		return rows[i].createdAt.Before(rows[j].createdAt)
	})
}

func toDomainSlice(rows []row) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(rows))
	for _, stored := range rows {
		o, err := stored.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

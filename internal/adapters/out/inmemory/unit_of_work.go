package inmemory

import (
	"context"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// UnitOfWorkFactory creates units of work over one shared store.
type UnitOfWorkFactory struct {
	store *Store
}

// NewUnitOfWorkFactory creates a factory bound to the store.
func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

// Create returns a fresh unit of work.
func (f *UnitOfWorkFactory) Create() commands.OrderUoW {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork satisfies the command handlers' transaction contract over the
// in-memory store. Writes apply immediately because every repository operation is
// already atomic; command handlers perform at most one write per transaction, so
// nothing is left to undo on rollback.
type UnitOfWork struct {
	store         *Store
	trackedEvents []order.Event
	committed     bool
}

// Begin starts a unit of work.
func (u *UnitOfWork) Begin(_ context.Context) error {
	u.trackedEvents = u.trackedEvents[:0]
	u.committed = false
	return nil
}

// Commit marks the unit of work committed. Tracked events survive for post-commit
// publishing.
func (u *UnitOfWork) Commit(_ context.Context) error {
	u.committed = true
	return nil
}

// Rollback discards tracked events unless the unit of work already committed.
func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.committed {
		u.trackedEvents = u.trackedEvents[:0]
	}
	return nil
}

// OrderRepository returns the order repository wired to this unit of work's event
// tracking.
func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return NewOrderRepository(u.store, u)
}

// TrackEvent records an event produced by a conditional write.
func (u *UnitOfWork) TrackEvent(event order.Event) {
	u.trackedEvents = append(u.trackedEvents, event)
}

// TrackedEvents returns events recorded in this unit of work.
func (u *UnitOfWork) TrackedEvents() []order.Event {
	return u.trackedEvents
}

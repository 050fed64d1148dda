// Package postgres provides the GORM-based Unit of Work implementation.
//
// A unit of work wraps one database transaction and collects the order events
// produced by conditional writes inside it. Handlers publish those events only
// after a successful commit, so subscribers never observe a state that was rolled
// back.
package postgres

import (
	"context"

	"dispatch/internal/adapters/out/postgres/notificationrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates isolated UnitOfWork instances over one shared
// database connection.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a fresh UnitOfWork. Each instance owns its transaction state and
// event list; concurrent operations must use separate instances.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:            f.db,
		trackedEvents: make([]order.Event, 0, 1),
	}
}

// GormUnitOfWork coordinates one transaction and tracks the events generated by
// the stores within it.
type GormUnitOfWork struct {
	db            *gorm.DB
	tx            *gorm.DB
	trackedEvents []order.Event
}

// Begin starts the transaction. Calling Begin again on an open transaction is a
// no-op rather than a nested transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}
	return nil
}

// Commit finalizes the transaction. The tracked events stay available afterwards
// for post-commit publishing.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction and the events tracked within it.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedEvents = uow.trackedEvents[:0]
	return err
}

// OrderRepository returns the order store bound to the current transaction, or to
// the main connection when no transaction is open.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return orderrepo.NewGormOrderRepository(db, uow)
}

// NotificationRepository returns the notification store bound to the current
// transaction, or to the main connection when no transaction is open.
func (uow *GormUnitOfWork) NotificationRepository() ports.NotificationRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return notificationrepo.NewGormNotificationRepository(db)
}

// TrackEvent records an event produced by a store inside this unit of work.
// Called by repository implementations, not by handlers.
func (uow *GormUnitOfWork) TrackEvent(ev order.Event) {
	uow.trackedEvents = append(uow.trackedEvents, ev)
}

// TrackedEvents returns the events produced since Begin, in commit order.
func (uow *GormUnitOfWork) TrackedEvents() []order.Event {
	return uow.trackedEvents
}

package ports

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
//
// Repositories obtained from a UnitOfWork run inside its transaction once Begin has
// been called. Events produced by conditional writes are collected on the unit of
// work and must be published only after a successful Commit; a rollback discards
// them, so subscribers never observe a status that was not persisted.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// NotificationRepository returns a NotificationRepository bound to the current
	// transaction.
	NotificationRepository() NotificationRepository

	// TrackedEvents returns the events produced by conditional writes within this
	// unit of work, in commit order.
	TrackedEvents() []order.Event
}

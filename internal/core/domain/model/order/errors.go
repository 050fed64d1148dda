package order

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/kernel"
)

// Sentinel rejection errors. Handlers and transports classify rejections with
// errors.Is against these; the struct types below carry the details.
var (
	// ErrInvalidTransition: the requested edge does not exist in the graph, or the
	// acting role is not permitted to trigger it. Permanent, never retried.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrStaleTransition: the conditional write's precondition no longer held at
	// commit time. Recoverable after the caller re-reads the current status.
	ErrStaleTransition = errors.New("stale transition")

	// ErrCourierBusy: the courier already holds an active delivery. Permanent until
	// that delivery reaches a terminal status.
	ErrCourierBusy = errors.New("courier busy")
)

// ErrAlreadyClaimed is the courier-facing specialization of ErrStaleTransition raised
// when a claim loses the race. It wraps ErrStaleTransition so generic stale handling
// still matches.
var ErrAlreadyClaimed = fmt.Errorf("order already claimed: %w", ErrStaleTransition)

// InvalidTransitionError reports a transition rejected by the graph or by the
// role permission on the matching edges.
type InvalidTransitionError struct {
	From Status
	To   Status
	Role actor.Role
}

func NewInvalidTransitionError(from, to Status, role actor.Role) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Role: role}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s is not permitted for role %s", e.From, e.To, e.Role)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// StaleTransitionError reports that another actor moved the order first.
type StaleTransitionError struct {
	OrderID  kernel.UUID
	Expected Status
}

func NewStaleTransitionError(orderID kernel.UUID, expected Status) *StaleTransitionError {
	return &StaleTransitionError{OrderID: orderID, Expected: expected}
}

func (e *StaleTransitionError) Error() string {
	return fmt.Sprintf("stale transition: order %s is no longer in status %s", e.OrderID, e.Expected)
}

func (e *StaleTransitionError) Unwrap() error {
	return ErrStaleTransition
}

// AlreadyClaimedError reports a lost claim race to a courier.
type AlreadyClaimedError struct {
	OrderID kernel.UUID
}

func NewAlreadyClaimedError(orderID kernel.UUID) *AlreadyClaimedError {
	return &AlreadyClaimedError{OrderID: orderID}
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("order %s is no longer available", e.OrderID)
}

func (e *AlreadyClaimedError) Unwrap() error {
	return ErrAlreadyClaimed
}

// CourierBusyError reports that a courier tried to claim a second active delivery.
type CourierBusyError struct {
	CourierID     kernel.UUID
	ActiveOrderID kernel.UUID
}

func NewCourierBusyError(courierID, activeOrderID kernel.UUID) *CourierBusyError {
	return &CourierBusyError{CourierID: courierID, ActiveOrderID: activeOrderID}
}

func (e *CourierBusyError) Error() string {
	return fmt.Sprintf("courier %s already holds active delivery %s", e.CourierID, e.ActiveOrderID)
}

func (e *CourierBusyError) Unwrap() error {
	return ErrCourierBusy
}

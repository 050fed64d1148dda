// Package viewmodel implements the client-side reconciliation contract for one
// order: optimistic local updates, confirmation against authoritative events, and
// rollback on rejection.
//
// The model is pure. Every method on OrderView returns a new value and never
// performs IO, so clients can replay any sequence of inputs and always land in the
// same state.
package viewmodel

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// State is the reconciliation phase of the view.
type State string

const (
	// StateIdle means the view shows a confirmed status and no action is in flight.
	StateIdle State = "idle"
	// StatePending means an optimistic update is displayed but not yet confirmed.
	StatePending State = "pending"
	// StateConfirmed means the last displayed status was confirmed by an event.
	StateConfirmed State = "confirmed"
	// StateRolledBack means the last action was rejected and the view reverted.
	StateRolledBack State = "rolled_back"
)

// OrderView is the per-order client state. Displayed is what the UI renders;
// Confirmed is the last status the backend acknowledged. They differ exactly while
// an optimistic update is pending.
type OrderView struct {
	orderID   kernel.UUID
	confirmed order.Status
	displayed order.Status
	state     State
	notice    string
}

// NewOrderView creates a view over a known authoritative status.
func NewOrderView(orderID kernel.UUID, status order.Status) (OrderView, error) {
	if err := orderID.Validate(); err != nil {
		return OrderView{}, err
	}
	if err := status.Validate(); err != nil {
		return OrderView{}, err
	}

	return OrderView{
		orderID:   orderID,
		confirmed: status,
		displayed: status,
		state:     StateIdle,
	}, nil
}

// OrderID returns the order this view tracks.
func (v OrderView) OrderID() kernel.UUID { return v.orderID }

// Displayed returns the status the UI should render.
func (v OrderView) Displayed() order.Status { return v.displayed }

// Confirmed returns the last authoritative status.
func (v OrderView) Confirmed() order.Status { return v.confirmed }

// State returns the reconciliation phase.
func (v OrderView) State() State { return v.state }

// Notice returns the transient message set by a rollback, empty otherwise.
func (v OrderView) Notice() string { return v.notice }

// ApplyOptimistic renders the target status immediately, before the backend
// confirms the write. The previous confirmed status stays remembered for rollback.
func (v OrderView) ApplyOptimistic(to order.Status) (OrderView, error) {
	if err := to.Validate(); err != nil {
		return v, err
	}

	v.displayed = to
	v.state = StatePending
	v.notice = ""
	return v, nil
}

// OnEvent reconciles against an authoritative event.
//
// A matching event confirms the optimistic update; a different status means another
// actor won the race and overwrites the display; an event equal to the already
// confirmed status is re-delivery and changes nothing. Events for other orders are
// ignored.
func (v OrderView) OnEvent(ev order.Event) OrderView {
	if !ev.OrderID.IsEqual(v.orderID) {
		return v
	}

	// re-delivery of something already settled
	if ev.NewStatus == v.confirmed && v.state != StatePending {
		return v
	}

	v.confirmed = ev.NewStatus
	v.displayed = ev.NewStatus
	v.state = StateConfirmed
	v.notice = ""
	return v
}

// OnRejection rolls the display back to the last confirmed status and surfaces a
// transient notice. Rejections are expected, frequent, and non-fatal.
func (v OrderView) OnRejection(notice string) OrderView {
	v.displayed = v.confirmed
	v.state = StateRolledBack
	v.notice = notice
	return v
}

// AcknowledgeNotice clears the transient notice after the UI has shown it.
func (v OrderView) AcknowledgeNotice() OrderView {
	v.notice = ""
	if v.state == StateRolledBack {
		v.state = StateIdle
	}
	return v
}

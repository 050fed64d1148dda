package commands

import (
	"sync"

	"dispatch/internal/core/domain/model/kernel"
)

// orderGate serializes the commit-and-publish tail of command handling per order id.
// The conditional write decides which commit wins; the gate guarantees that commits
// reach the event publisher in the order they became durable, so no subscriber can
// observe a later status of an order before an earlier one.
//
// Acquisition order is always database row lock first, gate second: handlers take the
// gate only after their conditional write succeeded, so a gate holder never waits on
// another handler's uncommitted transaction.
type orderGate struct {
	mu    sync.Mutex
	locks map[kernel.UUID]*gateEntry
}

type gateEntry struct {
	mu   sync.Mutex
	refs int
}

func newOrderGate() *orderGate {
	return &orderGate{locks: make(map[kernel.UUID]*gateEntry)}
}

// acquire blocks until the caller holds the gate for the given order and returns the
// release function. Entries are reference counted; the map never retains orders with
// no handler in flight.
func (g *orderGate) acquire(id kernel.UUID) func() {
	g.mu.Lock()
	entry, ok := g.locks[id]
	if !ok {
		entry = &gateEntry{}
		g.locks[id] = entry
	}
	entry.refs++
	g.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		g.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(g.locks, id)
		}
		g.mu.Unlock()
	}
}

// publishGate is shared by every write handler in the process. The transition and
// claim paths both commit status changes of the same orders, so they must serialize
// through one gate.
var publishGate = newOrderGate()

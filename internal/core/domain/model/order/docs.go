// Package order contains the order aggregate and its lifecycle rules.
//
// An order moves through a closed set of statuses (Status) along edges defined by a
// static, role-scoped transition table (Graph). The aggregate enforces the structural
// invariants - most importantly that a courier is attached exactly while the order is
// out for delivery or delivered - while the Graph answers which transitions are legal
// and for whom.
//
// Race handling is deliberately not part of this package: concurrent writers are
// serialized by the store's conditional write, which reports a stale precondition as
// StaleTransitionError. The package only defines those rejection types so every layer
// speaks the same error taxonomy.
package order

package order

import (
	"fmt"
	"sort"

	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/pkg/errs"
)

// Transition is one edge of the status graph: a legal (from, to) move, the role
// permitted to trigger it, a label for rendering the action, and a display order.
//
// RequiredRole may be empty, meaning any authenticated role may trigger the edge.
// Several rows may share the same (from, to) pair with different roles; legality of
// the edge and permission of the role are checked separately so a client can tell
// "this action does not exist" apart from "this action is not yours".
type Transition struct {
	From         Status
	To           Status
	RequiredRole actor.Role
	ActionLabel  string
	DisplayOrder int
}

// Validate checks a single transition row.
func (t Transition) Validate() error {
	if err := t.From.Validate(); err != nil {
		return err
	}
	if err := t.To.Validate(); err != nil {
		return err
	}
	if t.From == t.To {
		return errs.NewValueIsInvalidErrorWithCause(
			"transition",
			fmt.Errorf("self-transition %s -> %s is never valid", t.From, t.To),
		)
	}
	if t.From.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause(
			"transition",
			fmt.Errorf("%s is terminal and has no outgoing transitions", t.From),
		)
	}
	if t.RequiredRole != "" {
		if err := t.RequiredRole.Validate(); err != nil {
			return err
		}
	}
	if t.ActionLabel == "" {
		return errs.NewValueIsRequiredError("action label")
	}
	return nil
}

// AllowsRole reports whether the given role may trigger this transition.
func (t Transition) AllowsRole(role actor.Role) bool {
	return t.RequiredRole == "" || t.RequiredRole == role
}

// Graph is the static table of legal status transitions.
//
// A Graph is loaded once - from storage when the table is configured, from
// DefaultTransitions otherwise - validated at construction, and treated as read-only
// for the lifetime of the process. Validators therefore never observe a half-updated
// table.
type Graph struct {
	transitions []Transition
	edges       map[statusEdge]bool
}

type statusEdge struct {
	from Status
	to   Status
}

// NewGraph builds a validated Graph from transition rows.
//
// Beyond per-row validation it enforces the structural invariants of the lifecycle:
// no duplicate (from, to, role) rows, cancellation reachable from every non-terminal
// status, and every status reachable from pending. Terminal statuses having no
// outgoing edges is already guaranteed per row.
func NewGraph(transitions []Transition) (*Graph, error) {
	if len(transitions) == 0 {
		return nil, errs.NewValueIsRequiredError("transitions")
	}

	edges := make(map[statusEdge]bool)
	seen := make(map[Transition]bool)
	rows := make([]Transition, 0, len(transitions))

	for _, t := range transitions {
		if err := t.Validate(); err != nil {
			return nil, err
		}

		key := Transition{From: t.From, To: t.To, RequiredRole: t.RequiredRole}
		if seen[key] {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"transitions",
				fmt.Errorf("duplicate transition %s -> %s for role %q", t.From, t.To, t.RequiredRole),
			)
		}
		seen[key] = true

		edges[statusEdge{from: t.From, to: t.To}] = true
		rows = append(rows, t)
	}

	g := &Graph{transitions: rows, edges: edges}

	if err := g.validateCancellable(); err != nil {
		return nil, err
	}
	if err := g.validateReachable(); err != nil {
		return nil, err
	}

	return g, nil
}

// IsValidTransition reports whether an edge from -> to exists, independent of role.
// Unknown statuses are an input error, not "false".
func (g *Graph) IsValidTransition(from, to Status) (bool, error) {
	if err := from.Validate(); err != nil {
		return false, err
	}
	if err := to.Validate(); err != nil {
		return false, err
	}
	return g.edges[statusEdge{from: from, to: to}], nil
}

// AvailableTransitions returns the transitions a given role may trigger from the
// given status, ordered by configured display order. Used on every state render,
// so it stays allocation-light and side-effect free.
func (g *Graph) AvailableTransitions(from Status, role actor.Role) ([]Transition, error) {
	if err := from.Validate(); err != nil {
		return nil, err
	}
	if err := role.Validate(); err != nil {
		return nil, err
	}

	available := make([]Transition, 0)
	for _, t := range g.transitions {
		if t.From == from && t.AllowsRole(role) {
			available = append(available, t)
		}
	}

	sort.SliceStable(available, func(i, j int) bool {
		return available[i].DisplayOrder < available[j].DisplayOrder
	})

	return available, nil
}

// Authorize checks a proposed transition for both edge legality and role permission.
// Returns the matching transition row, or InvalidTransitionError when either check
// fails. Unknown statuses and roles remain input errors.
func (g *Graph) Authorize(from, to Status, role actor.Role) (Transition, error) {
	if err := from.Validate(); err != nil {
		return Transition{}, err
	}
	if err := to.Validate(); err != nil {
		return Transition{}, err
	}
	if err := role.Validate(); err != nil {
		return Transition{}, err
	}

	if !g.edges[statusEdge{from: from, to: to}] {
		return Transition{}, NewInvalidTransitionError(from, to, role)
	}

	for _, t := range g.transitions {
		if t.From == from && t.To == to && t.AllowsRole(role) {
			return t, nil
		}
	}

	return Transition{}, NewInvalidTransitionError(from, to, role)
}

// Transitions returns a copy of all transition rows.
func (g *Graph) Transitions() []Transition {
	rows := make([]Transition, len(g.transitions))
	copy(rows, g.transitions)
	return rows
}

// validateCancellable ensures cancellation is reachable from every non-terminal status.
func (g *Graph) validateCancellable() error {
	for _, s := range AllStatuses() {
		if s.IsTerminal() {
			continue
		}
		if !g.edges[statusEdge{from: s, to: StatusCancelled}] {
			return errs.NewValueIsInvalidErrorWithCause(
				"transitions",
				fmt.Errorf("%s has no cancellation edge", s),
			)
		}
	}
	return nil
}

// validateReachable ensures every status can be reached by some walk from pending.
func (g *Graph) validateReachable() error {
	reached := map[Status]bool{StatusPending: true}
	frontier := []Status{StatusPending}

	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]

		for _, t := range g.transitions {
			if t.From == current && !reached[t.To] {
				reached[t.To] = true
				frontier = append(frontier, t.To)
			}
		}
	}

	for _, s := range AllStatuses() {
		if !reached[s] {
			return errs.NewValueIsInvalidErrorWithCause(
				"transitions",
				fmt.Errorf("%s is unreachable from %s", s, StatusPending),
			)
		}
	}
	return nil
}

// DefaultTransitions is the compiled-in transition table, used when no configured
// table exists in storage. Cancellation of a pending order is open to any role;
// later cancellations narrow to the restaurant and finally to administrators.
func DefaultTransitions() []Transition {
	return []Transition{
		{From: StatusPending, To: StatusPreparing, RequiredRole: actor.RoleRestaurant, ActionLabel: "Accept order", DisplayOrder: 1},
		{From: StatusPreparing, To: StatusReady, RequiredRole: actor.RoleRestaurant, ActionLabel: "Mark ready", DisplayOrder: 2},
		{From: StatusReady, To: StatusOutForDelivery, RequiredRole: actor.RoleCourier, ActionLabel: "Claim delivery", DisplayOrder: 3},
		{From: StatusOutForDelivery, To: StatusDelivered, RequiredRole: actor.RoleCourier, ActionLabel: "Mark delivered", DisplayOrder: 4},
		{From: StatusPending, To: StatusCancelled, ActionLabel: "Cancel order", DisplayOrder: 5},
		{From: StatusPreparing, To: StatusCancelled, RequiredRole: actor.RoleRestaurant, ActionLabel: "Cancel order", DisplayOrder: 6},
		{From: StatusPreparing, To: StatusCancelled, RequiredRole: actor.RoleAdmin, ActionLabel: "Cancel order", DisplayOrder: 7},
		{From: StatusReady, To: StatusCancelled, RequiredRole: actor.RoleAdmin, ActionLabel: "Cancel order", DisplayOrder: 8},
		{From: StatusOutForDelivery, To: StatusCancelled, RequiredRole: actor.RoleAdmin, ActionLabel: "Cancel order", DisplayOrder: 9},
	}
}

// DefaultGraph builds the Graph from DefaultTransitions.
func DefaultGraph() (*Graph, error) {
	return NewGraph(DefaultTransitions())
}

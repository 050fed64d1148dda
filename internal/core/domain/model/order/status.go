package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// The set is closed: exactly six values exist, and any other persisted string is a
// format error rather than a new status. Statuses carry a display rank used for
// presentation ordering only; which transitions are legal is defined by the Graph,
// never by rank adjacency.
type Status string

const (
	// StatusPending is the initial status of every order.
	StatusPending Status = "pending"

	// StatusPreparing means the restaurant accepted the order and is cooking.
	StatusPreparing Status = "preparing"

	// StatusReady means the order awaits pickup and may be claimed by a courier.
	StatusReady Status = "ready"

	// StatusOutForDelivery means exactly one courier holds the order.
	StatusOutForDelivery Status = "out_for_delivery"

	// StatusDelivered is a terminal status: the courier handed the order over.
	StatusDelivered Status = "delivered"

	// StatusCancelled is a terminal status reachable from every non-terminal one.
	StatusCancelled Status = "cancelled"
)

// statusRanks orders statuses for display. Rank order intentionally differs from the
// transition graph: cancelled sorts last even though it is reachable from anywhere.
func statusRanks() map[Status]int {
	return map[Status]int{
		StatusPending:        1,
		StatusPreparing:      2,
		StatusReady:          3,
		StatusOutForDelivery: 4,
		StatusDelivered:      5,
		StatusCancelled:      6,
	}
}

// AllStatuses returns the closed enumeration in display-rank order.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusPreparing,
		StatusReady,
		StatusOutForDelivery,
		StatusDelivered,
		StatusCancelled,
	}
}

// StatusFromString converts external input into a Status.
// Unknown values are an input error, not "false" and not a new status.
func StatusFromString(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

// Validate checks membership in the closed enumeration.
func (s Status) Validate() error {
	if _, ok := statusRanks()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// Rank returns the display rank of the status. Unknown statuses rank last.
func (s Status) Rank() int {
	if rank, ok := statusRanks()[s]; ok {
		return rank
	}
	return len(statusRanks()) + 1
}

// IsTerminal reports whether no transition may ever leave this status.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// RequiresCourier reports whether an order in this status must have a courier attached.
// The invariant is two-sided: outside these statuses the courier must be absent.
func (s Status) RequiresCourier() bool {
	return s == StatusOutForDelivery || s == StatusDelivered
}

// ValidateCanHaveCourier validates the consistency between status and courier
// assignment: a courier is attached if and only if the status requires one.
func (s Status) ValidateCanHaveCourier(courier bool) error {
	if courier && !s.RequiresCourier() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have a courier", string(s)),
		)
	}

	if !courier && s.RequiresCourier() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have no courier", string(s)),
		)
	}

	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

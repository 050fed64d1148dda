package ports

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// TransitionRepository loads the admin-configured status transition table.
//
// The table is read once at startup and the resulting Graph is immutable for the
// process lifetime; an empty table means the compiled-in defaults apply. Runtime
// edits to the stored table take effect on the next restart only, which keeps the
// validator free of time-of-check/time-of-use races.
type TransitionRepository interface {
	LoadTransitions(ctx context.Context) ([]order.Transition, error)
}

package ports

import (
	"context"

	"dispatch/internal/core/domain/model/actor"
)

// IdentityProvider resolves an authenticated principal into an (id, role) pair.
//
// Authentication itself is an external concern; the core trusts the resolved role for
// every permission check. The HTTP adapter's implementation reads identity headers
// set by the fronting auth layer.
type IdentityProvider interface {
	Resolve(ctx context.Context, actorID, role string) (actor.Actor, error)
}

package http

import (
	"context"
	"net/http"

	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// Identity headers set by the fronting auth layer. Authentication happens there;
// this adapter only resolves the already-verified principal.
const (
	HeaderActorID   = "X-Actor-Id"
	HeaderActorRole = "X-Actor-Role"
)

const actorContextKey = "dispatch.actor"

// HeaderIdentityProvider resolves identity header values into a domain actor.
type HeaderIdentityProvider struct{}

// NewHeaderIdentityProvider creates the header-based identity provider.
func NewHeaderIdentityProvider() HeaderIdentityProvider {
	return HeaderIdentityProvider{}
}

// Resolve parses the actor id and role strings into a validated actor.
func (HeaderIdentityProvider) Resolve(_ context.Context, actorID, role string) (actor.Actor, error) {
	id, err := kernel.UUIDFromString(actorID)
	if err != nil {
		return actor.Actor{}, err
	}

	parsedRole, err := actor.RoleFromString(role)
	if err != nil {
		return actor.Actor{}, err
	}

	return actor.NewActor(id, parsedRole)
}

// ActorMiddleware resolves the request's identity headers and stores the actor in
// the echo context. Requests without a resolvable identity are rejected.
func ActorMiddleware(provider ports.IdentityProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			resolved, err := provider.Resolve(
				c.Request().Context(),
				c.Request().Header.Get(HeaderActorID),
				c.Request().Header.Get(HeaderActorRole),
			)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorResponse{
					Code:    http.StatusUnauthorized,
					Message: "missing or invalid identity headers",
				})
			}

			c.Set(actorContextKey, resolved)
			return next(c)
		}
	}
}

func requestActor(c echo.Context) (actor.Actor, bool) {
	resolved, ok := c.Get(actorContextKey).(actor.Actor)
	return resolved, ok
}

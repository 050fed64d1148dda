// Package actor defines the identities that act on orders. The surrounding platform
// authenticates users; the core only receives an already-resolved (id, role) pair and
// trusts the role for permission checks.
package actor

import (
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Role is the closed set of actor roles known to the order lifecycle.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleRestaurant Role = "restaurant"
	RoleCourier    Role = "courier"
	RoleAdmin      Role = "admin"
)

// RoleFromString converts external input into a Role.
// Unknown values are an input error, never silently mapped.
func RoleFromString(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleRestaurant, RoleCourier, RoleAdmin:
		return Role(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
	}
}

// Validate checks that the role is a member of the closed enumeration.
func (r Role) Validate() error {
	_, err := RoleFromString(string(r))
	return err
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// Actor is a resolved identity: who is acting and in which role.
// Values are produced by the identity provider adapter and passed into every
// command; the core never derives roles on its own.
type Actor struct {
	ID   kernel.UUID
	Role Role
}

// NewActor creates a validated Actor.
func NewActor(id kernel.UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, Role: role}, nil
}

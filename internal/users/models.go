package users

import (
	"github.com/google/uuid"
)

type Role string

const (
	RoleBrand      Role = "brand"
	RoleVenueOwner Role = "venue_owner"
	RoleAdmin      Role = "admin"
	RoleSystem     Role = "system"
)

// Actor is the authenticated principal behind a command. Accounts themselves are
// managed by the identity service; the engine only sees the token claims.
type Actor struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  Role      `json:"role"`
}

// System is the actor used by the reconciler and the sweeper.
var System = Actor{ID: uuid.Nil, Name: "system", Role: RoleSystem}

func (a Actor) IsAdmin() bool  { return a.Role == RoleAdmin }
func (a Actor) IsSystem() bool { return a.Role == RoleSystem }

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleBrand, RoleVenueOwner, RoleAdmin:
		return true
	default:
		return false
	}
}

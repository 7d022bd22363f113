// README: User records and role definitions.
package identity

import (
	"time"

	"fleetrent/internal/types"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleCustomer, RoleDriver, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           types.ID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	DeletedAt    *time.Time
}

// Actor is the authenticated caller attached to every request.
type Actor struct {
	ID   types.ID
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

package domain

import "time"

// Role enumerates the portal access levels.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleBroker       Role = "BROKER"
	RoleFleetManager Role = "FLEET_MANAGER"
)

// IsValid reports whether the role is a known value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleBroker, RoleFleetManager:
		return true
	default:
		return false
	}
}

// User is an authenticated portal member. AccountID scopes fleet
// managers to their corporate account; admins and brokers are global.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	Role         Role
	AccountID    string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

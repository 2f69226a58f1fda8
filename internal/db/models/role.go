// Package models contains database model definitions.
package models

import "time"

// RoleName is the typed identifier of the three built-in roles.
// Role checks must switch exhaustively over these values instead of
// comparing open-ended integers or raw strings.
type RoleName string

const (
	// RoleAdmin is the administrator role. Admins manage accounts and see
	// the full inventory, sold vehicles included.
	RoleAdmin RoleName = "admin"
	// RoleManager is the manager role. Managers maintain dealership data
	// and record sales on behalf of any buyer.
	RoleManager RoleName = "manager"
	// RoleBuyer is the buyer role. Buyers may record a single purchase for
	// themselves and search their own sales.
	RoleBuyer RoleName = "buyer"
)

// Valid reports whether the role name is one of the three built-in roles.
func (r RoleName) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleBuyer:
		return true
	}

	return false
}

// Role represents a role in the role-based access control (RBAC) system.
// Roles are collections of permissions assigned to users.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey"`
	// Name is the unique name of the role ("admin", "manager", "buyer").
	Name string `gorm:"unique;size:100;not null"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255"`
	// IsSystem indicates if this is a system role that cannot be deleted.
	IsSystem bool `gorm:"default:false"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

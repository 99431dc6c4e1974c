package domain

import (
	"strings"
	"time"
)

// AdminRole enumerates back-office roles.
type AdminRole string

const (
	AdminRoleSuperadmin AdminRole = "superadmin"
	AdminRoleSupport    AdminRole = "support"
)

// Valid reports whether the role is one of the known back-office roles.
func (r AdminRole) Valid() bool {
	return r == AdminRoleSuperadmin || r == AdminRoleSupport
}

// Admin is the domain model for back-office staff.
type Admin struct {
	ID                 string
	FirstName          string
	LastName           string
	Email              string
	PasswordHash       string
	Role               AdminRole
	EmailNotifications bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// FullName joins first and last name for display.
func (a *Admin) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

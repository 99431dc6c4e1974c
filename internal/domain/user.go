package domain

import (
	"strings"
	"time"
)

// User is the domain model for customers who place orders and open tickets.
type User struct {
	ID                 string
	FirstName          string
	LastName           string
	Email              string
	PasswordHash       string
	Phone              *string
	ConfirmedAt        *time.Time
	EmailNotifications bool
	PlanCode           string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Confirmed reports whether the user verified their email address.
func (u *User) Confirmed() bool {
	return u.ConfirmedAt != nil
}

// HasPhone reports whether a phone number is on file.
func (u *User) HasPhone() bool {
	return u.Phone != nil && strings.TrimSpace(*u.Phone) != ""
}

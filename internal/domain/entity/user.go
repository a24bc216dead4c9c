package entity

import (
	"strings"
	"time"
)

// User is the core account entity. Exactly one role is attached to a user;
// the role is authoritative for access to administrative operations.
type User struct {
	ID           string // Opaque document id, stable across sessions.
	Email        string // Login identifier, unique.
	PasswordHash string // bcrypt hash; never serialized to clients.
	Role         Role   // "user" or "admin".
	FirstName    string
	LastName     string
	Phone        string // 11 digits starting with 0.
	City         string
	District     string
	Neighborhood string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name, trimming the result. It returns the
// empty string when neither part is set; callers decide on a placeholder.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

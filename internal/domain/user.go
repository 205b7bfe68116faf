package domain

import "time"

// Role is the authorization role stored on a user record.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a registered account. ID is assigned by the identity provider and never changes.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Package models defines the server-side entities persisted by supportdesk
// and the identity carried by bearer tokens.
package models

import "time"

// Role is the authorization level of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Account is a registered user. Email is stored lowercased and is unique.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is who a request acts as, as asserted by a verified token.
type Identity struct {
	AccountID string
	Email     string
	Role      Role
}

// Identity returns the token identity of a.
func (a *Account) Identity() Identity {
	return Identity{AccountID: a.ID, Email: a.Email, Role: a.Role}
}

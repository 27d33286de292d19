package domain

import "time"

// AccountRole enumerates operator roles.
type AccountRole string

const (
	RoleAdmin  AccountRole = "ADMIN"
	RoleViewer AccountRole = "VIEWER"
)

// Account models an operator login for the roster service.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         AccountRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the account may mutate roster data.
func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

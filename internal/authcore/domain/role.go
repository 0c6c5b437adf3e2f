package domain

import "time"

// Well-known role names referenced by the session core. Registration always
// assigns RoleClient; RoleAdmin exists for authorization-name checks only.
const (
	RoleAdmin  = "Admin"
	RoleClient = "Client"
)

type Role struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

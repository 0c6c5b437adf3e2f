package domain

import "time"

// Device is one authenticated client context. A row is created on every
// successful login; devices are deactivated on logout, never deleted.
type Device struct {
	ID         string
	UserID     string
	UserAgent  string
	IP         string
	LastActive time.Time
	IsActive   bool
	CreatedAt  time.Time
}

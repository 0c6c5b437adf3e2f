package domain

import "time"

// UserStatus is the lifecycle state of an account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
	UserStatusBlocked  UserStatus = "BLOCKED"
)

// User is the identity record. A non-nil TOTPSecret means two-factor
// authentication is enabled for the account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Phone        string
	Avatar       *string
	TOTPSecret   *string
	Status       UserStatus
	RoleID       string

	CreatedBy *string
	UpdatedBy *string
	DeletedBy *string
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TwoFactorEnabled reports whether a TOTP secret is set for the user.
func (u User) TwoFactorEnabled() bool {
	return u.TOTPSecret != nil && *u.TOTPSecret != ""
}

// PublicUser is User stripped of credential material, safe to return from
// registration and profile endpoints.
type PublicUser struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Avatar    *string    `json:"avatar"`
	Status    UserStatus `json:"status"`
	RoleID    string     `json:"roleId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Public strips password hash and TOTP secret from the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Avatar:    u.Avatar,
		Status:    u.Status,
		RoleID:    u.RoleID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

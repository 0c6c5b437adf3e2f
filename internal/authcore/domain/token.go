package domain

import "time"

// TokenPair is what login and rotation return: a short-lived access token and
// a long-lived single-use refresh token, both signed JWTs.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken models the stored refresh token record. The signed token
// string itself is the unique key; a record absent from the store was either
// rotated away or explicitly logged out.
type RefreshToken struct {
	Token     string
	UserID    string
	DeviceID  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// RefreshTokenWithUser is a refresh token row joined with its owning user and
// role, the shape the rotation flow needs in one lookup.
type RefreshTokenWithUser struct {
	Token RefreshToken
	User  User
	Role  Role
}

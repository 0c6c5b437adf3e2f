package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims carry the full authorization context a resource handler needs
// without a database round-trip. Additive changes only, to keep older tokens
// decodable.
type AccessClaims struct {
	jwt.RegisteredClaims

	UserID   string `json:"userId"`
	DeviceID string `json:"deviceId"`
	RoleID   string `json:"roleId"`
	RoleName string `json:"roleName"`
}

// RefreshClaims deliberately carry only the user identity; everything else is
// looked up from the stored token record at rotation time.
type RefreshClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"userId"`
}

// NewAccessClaims builds access-token claims for the given subject and
// authorization context.
func NewAccessClaims(userID, deviceID, roleID, roleName, issuer string, ttl time.Duration, now time.Time) AccessClaims {
	return AccessClaims{
		RegisteredClaims: registered(userID, issuer, ttl, now),
		UserID:           userID,
		DeviceID:         deviceID,
		RoleID:           roleID,
		RoleName:         roleName,
	}
}

// NewRefreshClaims builds refresh-token claims for the given subject.
func NewRefreshClaims(userID, issuer string, ttl time.Duration, now time.Time) RefreshClaims {
	return RefreshClaims{
		RegisteredClaims: registered(userID, issuer, ttl, now),
		UserID:           userID,
	}
}

func registered(subject, issuer string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        NewJTI(),
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim. Two tokens
// minted in the same second for the same subject must still differ.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

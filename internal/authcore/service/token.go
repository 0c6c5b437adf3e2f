package service

import (
	"time"

	"github.com/shopvn/authcore/pkg/jwtx"
)

// TokenService signs and verifies the two token flavours. Access and refresh
// tokens use independent HMAC secrets so a leaked access secret cannot mint
// long-lived credentials.
type TokenService struct {
	Issuer        string
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// SignAccessToken mints a short-lived token carrying the full authorization
// context: userId, deviceId, roleId and roleName.
func (s *TokenService) SignAccessToken(userID, deviceID, roleID, roleName string) (string, error) {
	claims := jwtx.NewAccessClaims(userID, deviceID, roleID, roleName, s.Issuer, s.AccessTTL, time.Now())
	return jwtx.SignHS256(claims, s.AccessSecret)
}

// SignRefreshToken mints a long-lived token carrying only the user identity.
func (s *TokenService) SignRefreshToken(userID string) (string, error) {
	claims := jwtx.NewRefreshClaims(userID, s.Issuer, s.RefreshTTL, time.Now())
	return jwtx.SignHS256(claims, s.RefreshSecret)
}

// VerifyAccessToken validates signature and expiry and returns the decoded
// claims. Any mismatch, expiry or malformed input fails.
func (s *TokenService) VerifyAccessToken(tokenString string) (jwtx.AccessClaims, error) {
	var claims jwtx.AccessClaims
	if err := jwtx.VerifyHS256(tokenString, &claims, s.AccessSecret); err != nil {
		return jwtx.AccessClaims{}, err
	}
	return claims, nil
}

// VerifyRefreshToken validates signature and expiry and returns the decoded
// claims, including the expiry the rotation flow persists alongside the row.
func (s *TokenService) VerifyRefreshToken(tokenString string) (jwtx.RefreshClaims, error) {
	var claims jwtx.RefreshClaims
	if err := jwtx.VerifyHS256(tokenString, &claims, s.RefreshSecret); err != nil {
		return jwtx.RefreshClaims{}, err
	}
	return claims, nil
}

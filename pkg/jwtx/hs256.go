package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers malformed input, signature mismatch and
	// wrong signing method.
	ErrInvalidToken = errors.New("jwtx: invalid token")
	// ErrExpired reports a token outside its validity window.
	ErrExpired = errors.New("jwtx: token expired")
)

// SignHS256 signs the given claims with an HMAC-SHA256 secret.
func SignHS256(claims jwt.Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyHS256 parses tokenString into claims, enforcing the HS256 signing
// method, the signature and the registered validity window. claims must be a
// pointer. Expiry is reported as ErrExpired; every other failure collapses to
// ErrInvalidToken so callers cannot distinguish attack classes.
func VerifyHS256(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpired
		}
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

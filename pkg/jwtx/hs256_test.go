package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerifyHS256(t *testing.T) {
	t.Parallel()
	secret := []byte("test-secret")

	claims := NewAccessClaims("user-1", "device-1", "role-1", "Client", "issuer", time.Minute, time.Now())
	tok, err := SignHS256(claims, secret)
	require.NoError(t, err)

	var decoded AccessClaims
	require.NoError(t, VerifyHS256(tok, &decoded, secret))
	require.Equal(t, "user-1", decoded.UserID)
	require.Equal(t, "user-1", decoded.Subject)
	require.NotEmpty(t, decoded.ID)
}

func TestVerifyHS256Failures(t *testing.T) {
	t.Parallel()
	secret := []byte("test-secret")

	claims := NewRefreshClaims("user-1", "issuer", time.Minute, time.Now())
	tok, err := SignHS256(claims, secret)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		var decoded RefreshClaims
		require.ErrorIs(t, VerifyHS256(tok, &decoded, []byte("other-secret")), ErrInvalidToken)
	})

	t.Run("malformed input", func(t *testing.T) {
		var decoded RefreshClaims
		require.ErrorIs(t, VerifyHS256("garbage", &decoded, secret), ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := SignHS256(NewRefreshClaims("user-1", "issuer", -time.Minute, time.Now()), secret)
		require.NoError(t, err)

		var decoded RefreshClaims
		require.ErrorIs(t, VerifyHS256(expired, &decoded, secret), ErrExpired)
	})

	t.Run("rejects non-HMAC algorithms", func(t *testing.T) {
		// alg=none style tokens must never verify.
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, NewRefreshClaims("user-1", "issuer", time.Minute, time.Now()))
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		var decoded RefreshClaims
		require.ErrorIs(t, VerifyHS256(raw, &decoded, secret), ErrInvalidToken)
	})
}

func TestJTIUniqueness(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for range 100 {
		id := NewJTI()
		require.False(t, seen[id])
		seen[id] = true
	}
}

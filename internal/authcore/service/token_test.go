package service

import (
	"testing"
	"time"

	"github.com/shopvn/authcore/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return &TokenService{
		Issuer:        "authcore-test",
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	}
}

func TestTokenServiceRoundTrip(t *testing.T) {
	t.Parallel()
	svc := newTestTokenService()

	t.Run("access token carries the full authorization context", func(t *testing.T) {
		tok, err := svc.SignAccessToken("user-1", "device-1", "role-1", "Client")
		require.NoError(t, err)

		claims, err := svc.VerifyAccessToken(tok)
		require.NoError(t, err)
		require.Equal(t, "user-1", claims.UserID)
		require.Equal(t, "device-1", claims.DeviceID)
		require.Equal(t, "role-1", claims.RoleID)
		require.Equal(t, "Client", claims.RoleName)
		require.Equal(t, "authcore-test", claims.Issuer)
	})

	t.Run("refresh token carries only the user", func(t *testing.T) {
		tok, err := svc.SignRefreshToken("user-1")
		require.NoError(t, err)

		claims, err := svc.VerifyRefreshToken(tok)
		require.NoError(t, err)
		require.Equal(t, "user-1", claims.UserID)
		require.WithinDuration(t, time.Now().Add(svc.RefreshTTL), claims.ExpiresAt.Time, 5*time.Second)
	})

	t.Run("two tokens for the same subject differ", func(t *testing.T) {
		a, err := svc.SignRefreshToken("user-1")
		require.NoError(t, err)
		b, err := svc.SignRefreshToken("user-1")
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})
}

func TestTokenServiceSecretsAreIndependent(t *testing.T) {
	t.Parallel()
	svc := newTestTokenService()

	access, err := svc.SignAccessToken("user-1", "device-1", "role-1", "Client")
	require.NoError(t, err)
	refresh, err := svc.SignRefreshToken("user-1")
	require.NoError(t, err)

	// Neither flavour verifies under the other's secret.
	_, err = svc.VerifyRefreshToken(access)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
	_, err = svc.VerifyAccessToken(refresh)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	t.Parallel()
	svc := newTestTokenService()
	svc.AccessTTL = -time.Minute

	tok, err := svc.SignAccessToken("user-1", "device-1", "role-1", "Client")
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(tok)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

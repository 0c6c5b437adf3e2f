package service

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestTwoFactorService(t *testing.T) {
	t.Parallel()
	svc := &TwoFactorService{Issuer: "authcore-test"}

	secret, err := svc.GenerateTOTPSecret("alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, secret.Secret)
	require.Contains(t, secret.URI, "otpauth://totp/")
	require.Contains(t, secret.URI, "authcore-test")

	code, err := totp.GenerateCode(secret.Secret, time.Now())
	require.NoError(t, err)
	require.True(t, svc.VerifyTOTP(secret.Secret, code))

	require.False(t, svc.VerifyTOTP(secret.Secret, "000000"))
	require.False(t, svc.VerifyTOTP(secret.Secret, "not-a-code"))
}

func TestTwoFactorSecretsAreUnique(t *testing.T) {
	t.Parallel()
	svc := &TwoFactorService{Issuer: "authcore-test"}

	a, err := svc.GenerateTOTPSecret("alice@example.com")
	require.NoError(t, err)
	b, err := svc.GenerateTOTPSecret("alice@example.com")
	require.NoError(t, err)
	require.NotEqual(t, a.Secret, b.Secret)
}

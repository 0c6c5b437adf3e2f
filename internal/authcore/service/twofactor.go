package service

import (
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TwoFactorService generates TOTP provisioning secrets and verifies
// submitted codes.
type TwoFactorService struct {
	Issuer string // issuer label shown in authenticator apps
}

// TOTPSecret is a freshly generated provisioning secret plus the otpauth://
// URI an authenticator app consumes (usually rendered as a QR code).
type TOTPSecret struct {
	Secret string `json:"secret"`
	URI    string `json:"uri"`
}

// GenerateTOTPSecret produces a provisioning secret bound to the user's
// email as the account label. Standard parameters: SHA1, 6 digits, 30s step.
func (s *TwoFactorService) GenerateTOTPSecret(email string) (TOTPSecret, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return TOTPSecret{}, fmt.Errorf("generate totp secret: %w", err)
	}

	return TOTPSecret{Secret: key.Secret(), URI: key.URL()}, nil
}

// VerifyTOTP validates a submitted time-based code against the secret using
// the library's default step/window tolerance, which absorbs normal clock
// skew.
func (s *TwoFactorService) VerifyTOTP(secret, code string) bool {
	return totp.Validate(code, secret)
}

package domain

import "time"

// CodePurpose tags what a verification code may be redeemed for. A code is
// only valid when looked up with the purpose it was issued under.
type CodePurpose string

const (
	CodePurposeRegister       CodePurpose = "REGISTER"
	CodePurposeForgotPassword CodePurpose = "FORGOT_PASSWORD"
	CodePurposeLogin          CodePurpose = "LOGIN"
	CodePurposeDisable2FA     CodePurpose = "DISABLE_2FA"
)

// ParseCodePurpose validates a raw purpose string from the boundary.
func ParseCodePurpose(s string) (CodePurpose, bool) {
	switch CodePurpose(s) {
	case CodePurposeRegister, CodePurposeForgotPassword, CodePurposeLogin, CodePurposeDisable2FA:
		return CodePurpose(s), true
	}
	return "", false
}

// VerificationCode is a one-time emailed code. Keyed by email rather than
// user id so it can exist before the user row does (registration flow).
// At most one live code per (email, purpose); reissuing overwrites.
type VerificationCode struct {
	ID        string
	Email     string
	Code      string
	Purpose   CodePurpose
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the code's validity window has passed.
func (c VerificationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

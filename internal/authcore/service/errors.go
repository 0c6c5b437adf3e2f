package service

import (
	"errors"
	"net/http"
)

// Error kinds. Stable machine-readable identifiers; the HTTP layer returns
// them verbatim so clients can switch on them.
const (
	KindEmailAlreadyExists      = "EmailAlreadyExists"
	KindEmailNotFound           = "EmailNotFound"
	KindInvalidCredentials      = "InvalidCredentials"
	KindInvalidTOTP             = "InvalidTOTP"
	KindInvalidTOTPAndCode      = "InvalidTOTPAndCode"
	KindTOTPAlreadyEnabled      = "TOTPAlreadyEnabled"
	KindTOTPNotEnabled          = "TOTPNotEnabled"
	KindInvalidOrExpiredCode    = "InvalidOrExpiredCode"
	KindRefreshTokenAlreadyUsed = "RefreshTokenAlreadyUsed"
	KindUnauthorizedAccess      = "UnauthorizedAccess"
	KindNotFoundRecord          = "NotFoundRecord"
	KindOTPSendFailed           = "OTPSendFailed"
)

// DomainError is a typed business failure. Instances are constructed once
// below and passed through unchanged to the boundary; no further wrapping.
type DomainError struct {
	Kind    string // stable machine-readable identifier
	Message string // human-readable description
	Field   string // offending request field, "" when not field-specific
	Status  int    // HTTP status the boundary maps this to
}

func (e *DomainError) Error() string { return e.Kind + ": " + e.Message }

var (
	ErrEmailAlreadyExists = &DomainError{
		Kind:    KindEmailAlreadyExists,
		Message: "an account with this email already exists",
		Field:   "email",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrEmailNotFound = &DomainError{
		Kind:    KindEmailNotFound,
		Message: "no account exists for this email",
		Field:   "email",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrInvalidCredentials = &DomainError{
		Kind:    KindInvalidCredentials,
		Message: "password is incorrect",
		Field:   "password",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrInvalidTOTP = &DomainError{
		Kind:    KindInvalidTOTP,
		Message: "TOTP code is invalid",
		Field:   "totpCode",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrInvalidTOTPAndCode = &DomainError{
		Kind:    KindInvalidTOTPAndCode,
		Message: "exactly one of totpCode or code is required when two-factor is enabled",
		Field:   "totpCode",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrTOTPAlreadyEnabled = &DomainError{
		Kind:    KindTOTPAlreadyEnabled,
		Message: "two-factor authentication is already enabled",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrTOTPNotEnabled = &DomainError{
		Kind:    KindTOTPNotEnabled,
		Message: "two-factor authentication is not enabled",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrInvalidCode = &DomainError{
		Kind:    KindInvalidOrExpiredCode,
		Message: "verification code is invalid",
		Field:   "code",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrExpiredCode = &DomainError{
		Kind:    KindInvalidOrExpiredCode,
		Message: "verification code has expired",
		Field:   "code",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrRefreshTokenAlreadyUsed = &DomainError{
		Kind:    KindRefreshTokenAlreadyUsed,
		Message: "refresh token has already been used",
		Status:  http.StatusUnauthorized,
	}
	ErrUnauthorizedAccess = &DomainError{
		Kind:    KindUnauthorizedAccess,
		Message: "unauthorized access",
		Status:  http.StatusUnauthorized,
	}
	ErrNotFoundRecord = &DomainError{
		Kind:    KindNotFoundRecord,
		Message: "record not found",
		Status:  http.StatusNotFound,
	}
	ErrOTPSendFailed = &DomainError{
		Kind:    KindOTPSendFailed,
		Message: "failed to send the OTP email",
		Field:   "code",
		Status:  http.StatusUnprocessableEntity,
	}
)

// AsDomainError unwraps err into a *DomainError if it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

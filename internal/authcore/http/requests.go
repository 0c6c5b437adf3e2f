package http

import (
	"net"
	"net/http"
	"strings"
)

// Request bodies are statically typed and validated here, at the boundary,
// so the services receive only well-formed input.

type registerRequest struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Phone           string `json:"phone"`
	Code            string `json:"code"`
}

func (r registerRequest) validate() (field, msg string) {
	switch {
	case !validEmail(r.Email):
		return "email", "a valid email address is required"
	case strings.TrimSpace(r.Name) == "":
		return "name", "name is required"
	case len(r.Password) < 6:
		return "password", "password must be at least 6 characters"
	case r.ConfirmPassword != r.Password:
		return "confirmPassword", "confirmPassword must match password"
	case r.Code == "":
		return "code", "code is required"
	}
	return "", ""
}

type sendOTPRequest struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

func (r sendOTPRequest) validate() (field, msg string) {
	switch {
	case !validEmail(r.Email):
		return "email", "a valid email address is required"
	case r.Type == "":
		return "type", "type is required"
	}
	return "", ""
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totpCode"`
	Code     string `json:"code"`
}

func (r loginRequest) validate() (field, msg string) {
	switch {
	case !validEmail(r.Email):
		return "email", "a valid email address is required"
	case r.Password == "":
		return "password", "password is required"
	case r.TOTPCode != "" && r.Code != "":
		return "totpCode", "supply either totpCode or code, not both"
	}
	return "", ""
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r refreshTokenRequest) validate() (field, msg string) {
	if r.RefreshToken == "" {
		return "refreshToken", "refreshToken is required"
	}
	return "", ""
}

type forgotPasswordRequest struct {
	Email              string `json:"email"`
	Code               string `json:"code"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

func (r forgotPasswordRequest) validate() (field, msg string) {
	switch {
	case !validEmail(r.Email):
		return "email", "a valid email address is required"
	case r.Code == "":
		return "code", "code is required"
	case len(r.NewPassword) < 6:
		return "newPassword", "newPassword must be at least 6 characters"
	case r.ConfirmNewPassword != r.NewPassword:
		return "confirmNewPassword", "confirmNewPassword must match newPassword"
	}
	return "", ""
}

type disableTwoFactorRequest struct {
	TOTPCode string `json:"totpCode"`
	Code     string `json:"code"`
}

func (r disableTwoFactorRequest) validate() (field, msg string) {
	switch {
	case r.TOTPCode != "" && r.Code != "":
		return "totpCode", "supply either totpCode or code, not both"
	case r.TOTPCode == "" && r.Code == "":
		return "totpCode", "one of totpCode or code is required"
	}
	return "", ""
}

func validEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t")
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.Index(fwd, ","); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

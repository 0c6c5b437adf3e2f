package http

import (
	"net/http"

	"github.com/shopvn/authcore/pkg/httpx"
)

// HandleSetupTwoFactor handles POST /auth/2fa/setup (authenticated). The
// returned secret and otpauth URI are shown once; the account counts as
// two-factor enabled immediately.
func (h *AuthHandler) HandleSetupTwoFactor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		writeValidationError(w, "", "missing authenticated user")
		return
	}

	secret, err := h.Sessions.SetupTwoFactorAuth(ctx, userID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, secret)
}

// HandleDisableTwoFactor handles POST /auth/2fa/disable (authenticated).
// Requires exactly one of a current TOTP code or a DISABLE_2FA email code.
func (h *AuthHandler) HandleDisableTwoFactor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		writeValidationError(w, "", "missing authenticated user")
		return
	}

	var req disableTwoFactorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if field, msg := req.validate(); field != "" {
		writeValidationError(w, field, msg)
		return
	}

	result, err := h.Sessions.DisableTwoFactorAuth(ctx, userID, req.TOTPCode, req.Code)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, result)
}

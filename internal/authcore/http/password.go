package http

import (
	"net/http"

	"github.com/shopvn/authcore/pkg/httpx"
)

// HandleForgotPassword handles POST /auth/forgot-password. The caller
// proves control of the mailbox with a FORGOT_PASSWORD code.
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req forgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if field, msg := req.validate(); field != "" {
		writeValidationError(w, field, msg)
		return
	}

	result, err := h.Sessions.ForgotPassword(ctx, req.Email, req.Code, req.NewPassword)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, result)
}

package http

import (
	"net/http"

	"github.com/shopvn/authcore/internal/authcore/service"
	"github.com/shopvn/authcore/pkg/httpx"
)

// HandleLogin handles POST /auth/login. Accounts with two-factor enabled
// must supply exactly one of totpCode or a LOGIN email code.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if field, msg := req.validate(); field != "" {
		writeValidationError(w, field, msg)
		return
	}

	pair, err := h.Sessions.Login(ctx, service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: r.UserAgent(),
		IP:        clientIP(r),
		TOTPCode:  req.TOTPCode,
		Code:      req.Code,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, pair)
}

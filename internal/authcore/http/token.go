package http

import (
	"net/http"

	"github.com/shopvn/authcore/pkg/httpx"
)

// HandleRefreshToken handles POST /auth/refresh-token. Rotation is single
// use: presenting an already-rotated token yields 401.
func (h *AuthHandler) HandleRefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refreshTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if field, msg := req.validate(); field != "" {
		writeValidationError(w, field, msg)
		return
	}

	pair, err := h.Sessions.RefreshToken(ctx, req.RefreshToken, r.UserAgent(), clientIP(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, pair)
}

// HandleLogout handles POST /auth/logout (authenticated).
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refreshTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if field, msg := req.validate(); field != "" {
		writeValidationError(w, field, msg)
		return
	}

	result, err := h.Sessions.Logout(ctx, req.RefreshToken)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, result)
}

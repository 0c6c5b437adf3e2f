package http

import (
	"net/http"

	"github.com/shopvn/authcore/internal/authcore/domain"
	"github.com/shopvn/authcore/internal/authcore/service"
	"github.com/shopvn/authcore/pkg/httpx"
)

// AuthHandler serves the credential endpoints backed by the session manager.
type AuthHandler struct {
	Sessions *service.SessionManager
}

// HandleRegister handles POST /auth/register. Requires a valid REGISTER
// verification code previously requested through /auth/otp.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if field, msg := req.validate(); field != "" {
		writeValidationError(w, field, msg)
		return
	}

	user, err := h.Sessions.Register(ctx, service.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Phone:    req.Phone,
		Code:     req.Code,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteData(w, http.StatusCreated, user)
}

// HandleSendOTP handles POST /auth/otp. The type field selects the purpose
// the emailed code is valid for.
func (h *AuthHandler) HandleSendOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req sendOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if field, msg := req.validate(); field != "" {
		writeValidationError(w, field, msg)
		return
	}

	purpose, ok := domain.ParseCodePurpose(req.Type)
	if !ok {
		writeValidationError(w, "type", "type must be one of REGISTER, FORGOT_PASSWORD, LOGIN, DISABLE_2FA")
		return
	}

	result, err := h.Sessions.SendOTP(ctx, req.Email, purpose)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, result)
}

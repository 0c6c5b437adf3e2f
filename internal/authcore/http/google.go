package http

import (
	"net/http"
	"net/url"

	"github.com/shopvn/authcore/internal/authcore/google"
	"github.com/shopvn/authcore/pkg/httpx"
	"github.com/shopvn/authcore/pkg/slogx"
)

// GoogleHandler serves the federated sign-in endpoints.
type GoogleHandler struct {
	Google *google.Service

	// ClientRedirectURI is the frontend URL the callback redirects to,
	// carrying either the token pair or an error message as query params.
	ClientRedirectURI string
}

type googleLinkResponse struct {
	URL string `json:"url"`
}

// HandleLink handles GET /auth/google-link.
func (h *GoogleHandler) HandleLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	authURL, err := h.Google.AuthorizationURL(r.UserAgent(), clientIP(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, googleLinkResponse{URL: authURL})
}

// HandleCallback handles GET /auth/google/callback. Google lands the user
// here; the browser is forwarded to the client app either way, so failures
// surface as an errorMessage query param rather than a JSON error.
func (h *GoogleHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	if code == "" {
		h.redirectError(w, r, "missing authorization code")
		return
	}

	pair, err := h.Google.Callback(ctx, code, state)
	if err != nil {
		slogx.FromContext(ctx).Error("google callback failed", "err", err)
		h.redirectError(w, r, "failed to sign in with Google, please try again")
		return
	}

	q := url.Values{}
	q.Set("accessToken", pair.AccessToken)
	q.Set("refreshToken", pair.RefreshToken)
	http.Redirect(w, r, h.ClientRedirectURI+"?"+q.Encode(), http.StatusFound)
}

func (h *GoogleHandler) redirectError(w http.ResponseWriter, r *http.Request, msg string) {
	q := url.Values{}
	q.Set("errorMessage", msg)
	http.Redirect(w, r, h.ClientRedirectURI+"?"+q.Encode(), http.StatusFound)
}

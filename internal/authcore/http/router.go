package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shopvn/authcore/internal/authcore/google"
	"github.com/shopvn/authcore/internal/authcore/service"
	"github.com/shopvn/authcore/internal/authcore/store"
	"github.com/shopvn/authcore/pkg/httpx"
	"github.com/shopvn/authcore/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Sessions *service.SessionManager
	Tokens   *service.TokenService
	Google   *google.Service

	ClientRedirectURI string
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerGoogle()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Sessions: r.Sessions}
	authn := httpx.AuthnMiddleware(r.Tokens)

	r.Mux.Handle("POST /auth/register", http.HandlerFunc(h.HandleRegister))
	r.Mux.Handle("POST /auth/otp", http.HandlerFunc(h.HandleSendOTP))
	r.Mux.Handle("POST /auth/login", http.HandlerFunc(h.HandleLogin))
	r.Mux.Handle("POST /auth/refresh-token", http.HandlerFunc(h.HandleRefreshToken))
	r.Mux.Handle("POST /auth/forgot-password", http.HandlerFunc(h.HandleForgotPassword))

	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout), authn))
	r.Mux.Handle("POST /auth/2fa/setup",
		httpx.Chain(http.HandlerFunc(h.HandleSetupTwoFactor), authn))
	r.Mux.Handle("POST /auth/2fa/disable",
		httpx.Chain(http.HandlerFunc(h.HandleDisableTwoFactor), authn))
}

func (r *Router) registerGoogle() {
	if r.Google == nil {
		r.logger.Info("google sign-in disabled, no client credentials configured")
		return
	}

	h := &GoogleHandler{Google: r.Google, ClientRedirectURI: r.ClientRedirectURI}

	r.Mux.Handle("GET /auth/google-link", http.HandlerFunc(h.HandleLink))
	r.Mux.Handle("GET /auth/google/callback", http.HandlerFunc(h.HandleCallback))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}

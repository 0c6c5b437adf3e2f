package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopvn/authcore/internal/authcore/domain"
	"github.com/shopvn/authcore/internal/authcore/service"
	"github.com/shopvn/authcore/internal/authcore/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

type testSender struct{ codes map[string]string }

func (s *testSender) Send(_ context.Context, to, code string) error {
	s.codes[to] = code
	return nil
}

type testHasher struct{}

func (testHasher) Hash(p string) (string, error) { return "h:" + p, nil }
func (testHasher) Compare(p, h string) error {
	if "h:"+p != h {
		return context.Canceled
	}
	return nil
}

func newTestRouter(t *testing.T) (*Router, *testSender) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens := &service.TokenService{
		Issuer:        "authcore-test",
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	}
	sender := &testSender{codes: map[string]string{}}
	sessions := &service.SessionManager{
		Store:     st,
		Tokens:    tokens,
		TwoFactor: &service.TwoFactorService{Issuer: "authcore-test"},
		Codes:     &service.VerificationCodeManager{Store: st, TTL: 5 * time.Minute},
		Email:     sender,
		Hasher:    testHasher{},
	}

	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	r := NewRouter("test", st, logger)
	r.Sessions = sessions
	r.Tokens = tokens
	r.ApplyRoutes()

	return r, sender
}

func doJSON(t *testing.T, r *Router, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// registerAndLogin drives the full OTP + register + login flow over HTTP
// and returns the token pair from the envelope.
func registerAndLogin(t *testing.T, r *Router, sender *testSender, email string) domain.TokenPair {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/auth/otp", map[string]string{
		"email": email, "type": "REGISTER",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/auth/register", map[string]string{
		"email": email, "name": "Test", "password": "password1",
		"confirmPassword": "password1", "code": sender.codes[email],
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/auth/login", map[string]string{
		"email": email, "password": "password1",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data       domain.TokenPair `json:"data"`
		StatusCode int              `json:"statusCode"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, http.StatusOK, env.StatusCode)
	return env.Data
}

func TestRegisterFlowOverHTTP(t *testing.T) {
	t.Parallel()
	r, sender := newTestRouter(t)

	pair := registerAndLogin(t, r, sender, "alice@example.com")
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
}

func TestRequestValidation(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	cases := []struct {
		name  string
		path  string
		body  map[string]string
		field string
	}{
		{"register without email", "/auth/register",
			map[string]string{"name": "x", "password": "password1", "confirmPassword": "password1", "code": "1"}, "email"},
		{"register password mismatch", "/auth/register",
			map[string]string{"email": "a@b.c", "name": "x", "password": "password1", "confirmPassword": "password2", "code": "1"}, "confirmPassword"},
		{"otp with bad type", "/auth/otp",
			map[string]string{"email": "a@b.c", "type": "BOGUS"}, "type"},
		{"login with both totp and code", "/auth/login",
			map[string]string{"email": "a@b.c", "password": "x", "totpCode": "1", "code": "2"}, "totpCode"},
		{"refresh without token", "/auth/refresh-token",
			map[string]string{}, "refreshToken"},
		{"forgot-password short password", "/auth/forgot-password",
			map[string]string{"email": "a@b.c", "code": "1", "newPassword": "abc", "confirmNewPassword": "abc"}, "newPassword"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPost, tc.path, tc.body, nil)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, "ValidationFailed", body.Error)
			require.Equal(t, tc.field, body.Field)
		})
	}
}

func TestDomainErrorsOnTheWire(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	t.Run("login against unknown email", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/auth/login", map[string]string{
			"email": "ghost@example.com", "password": "x",
		}, nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, service.KindEmailNotFound, body.Error)
		require.Equal(t, "email", body.Field)
	})

	t.Run("refresh with garbage token", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/auth/refresh-token", map[string]string{
			"refreshToken": "not-a-jwt",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, service.KindUnauthorizedAccess, body.Error)
	})
}

func TestRefreshRotationOverHTTP(t *testing.T) {
	t.Parallel()
	r, sender := newTestRouter(t)
	pair := registerAndLogin(t, r, sender, "alice@example.com")

	rec := doJSON(t, r, http.MethodPost, "/auth/refresh-token", map[string]string{
		"refreshToken": pair.RefreshToken,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The consumed token now reports reuse.
	rec = doJSON(t, r, http.MethodPost, "/auth/refresh-token", map[string]string{
		"refreshToken": pair.RefreshToken,
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, service.KindRefreshTokenAlreadyUsed, body.Error)
}

func TestAuthenticatedRoutesRequireBearer(t *testing.T) {
	t.Parallel()
	r, sender := newTestRouter(t)

	for _, path := range []string{"/auth/logout", "/auth/2fa/setup", "/auth/2fa/disable"} {
		rec := doJSON(t, r, http.MethodPost, path, map[string]string{}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	pair := registerAndLogin(t, r, sender, "alice@example.com")
	authz := map[string]string{"Authorization": "Bearer " + pair.AccessToken}

	rec := doJSON(t, r, http.MethodPost, "/auth/2fa/setup", nil, authz)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data service.TOTPSecret `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotEmpty(t, env.Data.Secret)

	rec = doJSON(t, r, http.MethodPost, "/auth/logout", map[string]string{
		"refreshToken": pair.RefreshToken,
	}, authz)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	for _, path := range []string{"/livez", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

package google

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/shopvn/authcore/internal/authcore/domain"
	"github.com/shopvn/authcore/internal/authcore/service"
	"github.com/shopvn/authcore/internal/authcore/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

type plainHasher struct{}

var _ service.Hasher = plainHasher{}

func (plainHasher) Hash(p string) (string, error) { return "plain:" + p, nil }
func (plainHasher) Compare(p, h string) error     { return nil }

func newTestService(t *testing.T) *Service {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	return NewService("client-id", "client-secret", "http://localhost:8080/auth/google/callback", st, nil, plainHasher{})
}

func TestAuthorizationURLCarriesState(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	authURL, err := svc.AuthorizationURL("test-agent", "10.0.0.1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(authURL, "https://accounts.google.com/o/oauth2/auth"))
	require.Contains(t, authURL, "client_id=client-id")

	// The state parameter decodes back to the caller's fingerprint.
	i := strings.Index(authURL, "state=")
	require.GreaterOrEqual(t, i, 0)
	state := authURL[i+len("state="):]
	if j := strings.Index(state, "&"); j >= 0 {
		state = state[:j]
	}

	sv, err := decodeState(state)
	require.NoError(t, err)
	require.Equal(t, "test-agent", sv.UserAgent)
	require.Equal(t, "10.0.0.1", sv.IP)
}

func TestDecodeStateRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := decodeState("%%%not-base64")
	require.Error(t, err)

	notJSON := base64.URLEncoding.EncodeToString([]byte("not json"))
	_, err = decodeState(notJSON)
	require.Error(t, err)
}

func TestResolveUserProvisionsOnFirstSignIn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	info := userinfo{Email: "new@example.com", Name: "New User", Picture: "https://example.com/p.png"}

	user, role, err := svc.resolveUser(ctx, info)
	require.NoError(t, err)
	require.Equal(t, domain.RoleClient, role.Name)
	require.NotNil(t, user.Avatar)
	require.True(t, strings.HasPrefix(user.PasswordHash, "plain:"))

	// Second sign-in resolves to the same account.
	again, _, err := svc.resolveUser(ctx, info)
	require.NoError(t, err)
	require.Equal(t, user.ID, again.ID)
}

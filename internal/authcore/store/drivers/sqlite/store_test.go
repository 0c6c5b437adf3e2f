package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopvn/authcore/internal/authcore/domain"
	"github.com/shopvn/authcore/internal/authcore/store"
	"github.com/shopvn/authcore/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	return st
}

func seedUser(t *testing.T, st store.Store, email string) domain.User {
	t.Helper()
	ctx := context.Background()

	role, err := st.Roles().GetRoleByName(ctx, domain.RoleClient)
	require.NoError(t, err)

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Seed User",
		PasswordHash: "hash",
		Status:       domain.UserStatusActive,
		RoleID:       role.ID,
	}
	require.NoError(t, st.Users().CreateUser(ctx, u))
	return u
}

func TestMigrationsSeedRoles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	for _, name := range []string{domain.RoleAdmin, domain.RoleClient} {
		role, err := st.Roles().GetRoleByName(ctx, name)
		require.NoError(t, err)
		require.Equal(t, name, role.Name)
		require.True(t, role.IsActive)
	}

	_, err := st.Roles().GetRoleByName(ctx, "Nonexistent")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	u := seedUser(t, st, "alice@example.com")

	t.Run("lookup by id and email", func(t *testing.T) {
		byID, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, byID.Email)

		byEmail, err := st.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, byEmail.ID)

		_, err = st.Users().GetUserByEmail(ctx, "ghost@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("lookup with role", func(t *testing.T) {
		user, role, err := st.Users().GetUserByEmailWithRole(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, user.ID)
		require.Equal(t, domain.RoleClient, role.Name)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := u
		dup.ID = idx.New().String()
		require.ErrorIs(t, st.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("unknown role id", func(t *testing.T) {
		bad := domain.User{
			ID:           idx.New().String(),
			Email:        "bad@example.com",
			Name:         "Bad",
			PasswordHash: "hash",
			Status:       domain.UserStatusActive,
			RoleID:       idx.New().String(),
		}
		require.ErrorIs(t, st.Users().CreateUser(ctx, bad), store.ErrForeignKey)
	})

	t.Run("update password hash", func(t *testing.T) {
		require.NoError(t, st.Users().UpdatePasswordHash(ctx, u.ID, "new-hash", u.ID))

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "new-hash", got.PasswordHash)

		require.ErrorIs(t,
			st.Users().UpdatePasswordHash(ctx, idx.New().String(), "x", u.ID),
			store.ErrNotFound)
	})

	t.Run("set and clear totp secret", func(t *testing.T) {
		secret := "JBSWY3DPEHPK3PXP"
		require.NoError(t, st.Users().UpdateTOTPSecret(ctx, u.ID, &secret, u.ID))

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.TOTPSecret)
		require.True(t, got.TwoFactorEnabled())

		require.NoError(t, st.Users().UpdateTOTPSecret(ctx, u.ID, nil, u.ID))
		got, err = st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Nil(t, got.TOTPSecret)
	})
}

func TestDevicesRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	u := seedUser(t, st, "alice@example.com")

	d := domain.Device{
		ID:        idx.New().String(),
		UserID:    u.ID,
		UserAgent: "agent-1",
		IP:        "10.0.0.1",
		IsActive:  true,
	}
	require.NoError(t, st.Devices().CreateDevice(ctx, d))

	t.Run("touch updates fingerprint", func(t *testing.T) {
		require.NoError(t, st.Devices().TouchDevice(ctx, d.ID, "agent-2", "10.0.0.2"))

		got, err := st.Devices().GetDeviceByID(ctx, d.ID)
		require.NoError(t, err)
		require.Equal(t, "agent-2", got.UserAgent)
		require.Equal(t, "10.0.0.2", got.IP)
	})

	t.Run("deactivate", func(t *testing.T) {
		require.NoError(t, st.Devices().DeactivateDevice(ctx, d.ID))

		got, err := st.Devices().GetDeviceByID(ctx, d.ID)
		require.NoError(t, err)
		require.False(t, got.IsActive)
	})

	t.Run("unknown device", func(t *testing.T) {
		require.ErrorIs(t, st.Devices().TouchDevice(ctx, idx.New().String(), "a", "i"), store.ErrNotFound)
	})
}

func TestRefreshTokensRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	u := seedUser(t, st, "alice@example.com")

	d := domain.Device{ID: idx.New().String(), UserID: u.ID, UserAgent: "a", IP: "i", IsActive: true}
	require.NoError(t, st.Devices().CreateDevice(ctx, d))

	tok := domain.RefreshToken{
		Token:     "token-string-1",
		UserID:    u.ID,
		DeviceID:  d.ID,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	require.NoError(t, st.RefreshTokens().CreateRefreshToken(ctx, tok))

	t.Run("joined lookup", func(t *testing.T) {
		rec, err := st.RefreshTokens().GetRefreshTokenWithUser(ctx, "token-string-1")
		require.NoError(t, err)
		require.Equal(t, u.ID, rec.User.ID)
		require.Equal(t, d.ID, rec.Token.DeviceID)
		require.Equal(t, domain.RoleClient, rec.Role.Name)
	})

	t.Run("delete returns the row once", func(t *testing.T) {
		deleted, err := st.RefreshTokens().DeleteRefreshToken(ctx, "token-string-1")
		require.NoError(t, err)
		require.Equal(t, d.ID, deleted.DeviceID)

		_, err = st.RefreshTokens().DeleteRefreshToken(ctx, "token-string-1")
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = st.RefreshTokens().GetRefreshTokenWithUser(ctx, "token-string-1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("expired sweep removes only stale rows", func(t *testing.T) {
		live := domain.RefreshToken{
			Token: "live", UserID: u.ID, DeviceID: d.ID,
			ExpiresAt: time.Now().Add(time.Hour), CreatedAt: time.Now(),
		}
		stale := domain.RefreshToken{
			Token: "stale", UserID: u.ID, DeviceID: d.ID,
			ExpiresAt: time.Now().Add(-time.Hour), CreatedAt: time.Now(),
		}
		require.NoError(t, st.RefreshTokens().CreateRefreshToken(ctx, live))
		require.NoError(t, st.RefreshTokens().CreateRefreshToken(ctx, stale))

		require.NoError(t, st.RefreshTokens().DeleteExpiredRefreshTokens(ctx))

		_, err := st.RefreshTokens().GetRefreshTokenWithUser(ctx, "live")
		require.NoError(t, err)
		_, err = st.RefreshTokens().GetRefreshTokenWithUser(ctx, "stale")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestVerificationCodesRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	code := domain.VerificationCode{
		ID:        idx.New().String(),
		Email:     "alice@example.com",
		Code:      "111111",
		Purpose:   domain.CodePurposeRegister,
		ExpiresAt: time.Now().Add(5 * time.Minute),
		CreatedAt: time.Now(),
	}
	require.NoError(t, st.VerificationCodes().UpsertVerificationCode(ctx, code))

	t.Run("upsert replaces by email and purpose", func(t *testing.T) {
		replacement := code
		replacement.ID = idx.New().String()
		replacement.Code = "222222"
		require.NoError(t, st.VerificationCodes().UpsertVerificationCode(ctx, replacement))

		_, err := st.VerificationCodes().GetVerificationCode(ctx, "alice@example.com", "111111", domain.CodePurposeRegister)
		require.ErrorIs(t, err, store.ErrNotFound)

		got, err := st.VerificationCodes().GetVerificationCode(ctx, "alice@example.com", "222222", domain.CodePurposeRegister)
		require.NoError(t, err)
		require.Equal(t, domain.CodePurposeRegister, got.Purpose)
	})

	t.Run("delete enforces single use", func(t *testing.T) {
		require.NoError(t, st.VerificationCodes().DeleteVerificationCode(ctx, "alice@example.com", "222222", domain.CodePurposeRegister))
		require.ErrorIs(t,
			st.VerificationCodes().DeleteVerificationCode(ctx, "alice@example.com", "222222", domain.CodePurposeRegister),
			store.ErrNotFound)
	})

	t.Run("expired sweep", func(t *testing.T) {
		stale := domain.VerificationCode{
			ID: idx.New().String(), Email: "bob@example.com", Code: "333333",
			Purpose:   domain.CodePurposeLogin,
			ExpiresAt: time.Now().Add(-time.Minute), CreatedAt: time.Now(),
		}
		require.NoError(t, st.VerificationCodes().UpsertVerificationCode(ctx, stale))
		require.NoError(t, st.VerificationCodes().DeleteExpiredVerificationCodes(ctx))

		_, err := st.VerificationCodes().GetVerificationCode(ctx, "bob@example.com", "333333", domain.CodePurposeLogin)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestWithTx(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	t.Run("commit on nil", func(t *testing.T) {
		var id string
		err := st.WithTx(ctx, func(tx store.Tx) error {
			role, err := tx.Roles().GetRoleByName(ctx, domain.RoleClient)
			if err != nil {
				return err
			}
			u := domain.User{
				ID:           idx.New().String(),
				Email:        "tx@example.com",
				Name:         "Tx",
				PasswordHash: "hash",
				Status:       domain.UserStatusActive,
				RoleID:       role.ID,
			}
			id = u.ID
			return tx.Users().CreateUser(ctx, u)
		})
		require.NoError(t, err)

		_, err = st.Users().GetUserByID(ctx, id)
		require.NoError(t, err)
	})

	t.Run("rollback on error", func(t *testing.T) {
		sentinel := domain.User{
			ID:           idx.New().String(),
			Email:        "rollback@example.com",
			Name:         "Rollback",
			PasswordHash: "hash",
			Status:       domain.UserStatusActive,
		}
		err := st.WithTx(ctx, func(tx store.Tx) error {
			role, err := tx.Roles().GetRoleByName(ctx, domain.RoleClient)
			if err != nil {
				return err
			}
			sentinel.RoleID = role.ID
			if err := tx.Users().CreateUser(ctx, sentinel); err != nil {
				return err
			}
			return context.Canceled
		})
		require.ErrorIs(t, err, context.Canceled)

		_, err = st.Users().GetUserByEmail(ctx, "rollback@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

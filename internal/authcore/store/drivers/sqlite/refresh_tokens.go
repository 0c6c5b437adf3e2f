package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopvn/authcore/internal/authcore/domain"
)

type refreshTokensRepo struct {
	db dbtx
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (token, user_id, device_id, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.Token, t.UserID, t.DeviceID, t.ExpiresAt, t.CreatedAt,
	)
	return classifyErr(err)
}

func (r *refreshTokensRepo) GetRefreshTokenWithUser(ctx context.Context, token string) (domain.RefreshTokenWithUser, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			rt.token, rt.user_id, rt.device_id, rt.expires_at, rt.created_at,
			u.id, u.email, u.name, u.password_hash, u.phone, u.avatar, u.totp_secret,
			u.status, u.role_id, u.created_by, u.updated_by, u.deleted_by, u.deleted_at,
			u.created_at, u.updated_at,
			r.id, r.name, r.is_active, r.created_at, r.updated_at
		FROM refresh_tokens rt
		JOIN users u ON u.id = rt.user_id AND u.deleted_at IS NULL
		JOIN roles r ON r.id = u.role_id
		WHERE rt.token = ?`, token)

	var out domain.RefreshTokenWithUser
	var avatar, totpSecret, createdBy, updatedBy, deletedBy sql.NullString
	var deletedAt sql.NullTime
	var status string

	err := row.Scan(
		&out.Token.Token, &out.Token.UserID, &out.Token.DeviceID,
		&out.Token.ExpiresAt, &out.Token.CreatedAt,
		&out.User.ID, &out.User.Email, &out.User.Name, &out.User.PasswordHash,
		&out.User.Phone, &avatar, &totpSecret, &status, &out.User.RoleID,
		&createdBy, &updatedBy, &deletedBy, &deletedAt,
		&out.User.CreatedAt, &out.User.UpdatedAt,
		&out.Role.ID, &out.Role.Name, &out.Role.IsActive,
		&out.Role.CreatedAt, &out.Role.UpdatedAt,
	)
	if err != nil {
		return domain.RefreshTokenWithUser{}, classifyErr(err)
	}

	out.User.Avatar = mapNullStringPtr(avatar)
	out.User.TOTPSecret = mapNullStringPtr(totpSecret)
	out.User.CreatedBy = mapNullStringPtr(createdBy)
	out.User.UpdatedBy = mapNullStringPtr(updatedBy)
	out.User.DeletedBy = mapNullStringPtr(deletedBy)
	out.User.DeletedAt = mapNullTimePtr(deletedAt)
	out.User.Status = domain.UserStatus(status)
	return out, nil
}

func (r *refreshTokensRepo) DeleteRefreshToken(ctx context.Context, token string) (domain.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx, `
		DELETE FROM refresh_tokens WHERE token = ?
		RETURNING token, user_id, device_id, expires_at, created_at`, token)

	var t domain.RefreshToken
	err := row.Scan(&t.Token, &t.UserID, &t.DeviceID, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return domain.RefreshToken{}, classifyErr(err)
	}
	return t, nil
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < ?`, time.Now().UTC())
	return classifyErr(err)
}

package sqlite

import (
	"context"
	"time"

	"github.com/shopvn/authcore/internal/authcore/domain"
)

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ? AND deleted_at IS NULL`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, classifyErr(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? AND deleted_at IS NULL`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, classifyErr(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmailWithRole(ctx context.Context, email string) (domain.User, domain.Role, error) {
	u, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, domain.Role{}, err
	}

	role, err := (&rolesRepo{db: r.db}).GetRoleByID(ctx, u.RoleID)
	if err != nil {
		return domain.User{}, domain.Role{}, err
	}
	return u, role, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}
	if u.Status == "" {
		u.Status = domain.UserStatusActive
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, name, password_hash, phone, avatar, totp_secret,
			status, role_id, created_by, updated_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Phone,
		mapOptionalString(u.Avatar), mapOptionalString(u.TOTPSecret),
		string(u.Status), u.RoleID,
		mapOptionalString(u.CreatedBy), mapOptionalString(u.UpdatedBy),
		u.CreatedAt, u.UpdatedAt,
	)
	return classifyErr(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash, updatedBy string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, updated_by = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		newHash, updatedBy, time.Now().UTC(), userID,
	)
	return checkAffected(res, err)
}

func (r *usersRepo) UpdateTOTPSecret(ctx context.Context, userID string, secret *string, updatedBy string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET totp_secret = ?, updated_by = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		mapOptionalString(secret), updatedBy, time.Now().UTC(), userID,
	)
	return checkAffected(res, err)
}

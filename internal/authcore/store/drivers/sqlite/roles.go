package sqlite

import (
	"context"

	"github.com/shopvn/authcore/internal/authcore/domain"
)

type rolesRepo struct {
	db dbtx
}

const roleColumns = `id, name, is_active, created_at, updated_at`

func (r *rolesRepo) GetRoleByID(ctx context.Context, id string) (domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE id = ?`, id).
		Scan(&role.ID, &role.Name, &role.IsActive, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return domain.Role{}, classifyErr(err)
	}
	return role, nil
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE name = ? AND is_active = 1`, name).
		Scan(&role.ID, &role.Name, &role.IsActive, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return domain.Role{}, classifyErr(err)
	}
	return role, nil
}

package sqlite

import (
	"context"
	"time"

	"github.com/shopvn/authcore/internal/authcore/domain"
)

type verificationCodesRepo struct {
	db dbtx
}

func (r *verificationCodesRepo) UpsertVerificationCode(ctx context.Context, c domain.VerificationCode) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	// One live code per (email, purpose); a new request overwrites the
	// outstanding code and expiry instead of accumulating rows.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO verification_codes (id, email, code, purpose, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (email, purpose) DO UPDATE SET
			code = excluded.code,
			expires_at = excluded.expires_at,
			created_at = excluded.created_at`,
		c.ID, c.Email, c.Code, string(c.Purpose), c.ExpiresAt, c.CreatedAt,
	)
	return classifyErr(err)
}

func (r *verificationCodesRepo) GetVerificationCode(ctx context.Context, email, code string, purpose domain.CodePurpose) (domain.VerificationCode, error) {
	var c domain.VerificationCode
	var rawPurpose string

	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, code, purpose, expires_at, created_at
		FROM verification_codes
		WHERE email = ? AND code = ? AND purpose = ?`,
		email, code, string(purpose)).
		Scan(&c.ID, &c.Email, &c.Code, &rawPurpose, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		return domain.VerificationCode{}, classifyErr(err)
	}

	c.Purpose = domain.CodePurpose(rawPurpose)
	return c, nil
}

func (r *verificationCodesRepo) DeleteVerificationCode(ctx context.Context, email, code string, purpose domain.CodePurpose) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM verification_codes WHERE email = ? AND code = ? AND purpose = ?`,
		email, code, string(purpose),
	)
	return checkAffected(res, err)
}

func (r *verificationCodesRepo) DeleteExpiredVerificationCodes(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM verification_codes WHERE expires_at < ?`, time.Now().UTC())
	return classifyErr(err)
}

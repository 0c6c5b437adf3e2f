package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopvn/authcore/internal/authcore/domain"
	"github.com/shopvn/authcore/internal/authcore/store"

	sqlite3 "modernc.org/sqlite"
)

// dbtx is the subset of *sql.DB / *sql.Tx the repositories need, so the same
// repository types serve both transactional and plain access.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Single connection: sqlite allows one writer, the PRAGMA below is
	// per-connection, and :memory: databases are per-connection too.
	db.SetMaxOpenConns(1)

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx executes fn within a transaction, automatically handling
// commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	raw, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	tx := newTx(raw)

	// Rollback is safe to call after commit; covers early error returns.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users                         { return &usersRepo{db: s.db} }
func (s *Store) Roles() store.Roles                         { return &rolesRepo{db: s.db} }
func (s *Store) Devices() store.Devices                     { return &devicesRepo{db: s.db} }
func (s *Store) RefreshTokens() store.RefreshTokens         { return &refreshTokensRepo{db: s.db} }
func (s *Store) VerificationCodes() store.VerificationCodes { return &verificationCodesRepo{db: s.db} }

// classifyErr maps driver-level failures onto the narrow store error
// vocabulary; anything unrecognised passes through unchanged.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}

	var se *sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case 1555, 2067: // SQLITE_CONSTRAINT_PRIMARYKEY, SQLITE_CONSTRAINT_UNIQUE
			return store.ErrAlreadyExists
		case 787: // SQLITE_CONSTRAINT_FOREIGNKEY
			return store.ErrForeignKey
		}
	}
	return err
}

// checkAffected turns a zero-row UPDATE/DELETE into store.ErrNotFound.
func checkAffected(res sql.Result, err error) error {
	if err != nil {
		return classifyErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time
		return &val
	}
	return nil
}

const userColumns = `id, email, name, password_hash, phone, avatar, totp_secret,
	status, role_id, created_by, updated_by, deleted_by, deleted_at, created_at, updated_at`

// scanUser reads the userColumns projection from any row scanner.
func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	var avatar, totpSecret, createdBy, updatedBy, deletedBy sql.NullString
	var deletedAt sql.NullTime
	var status string

	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Phone, &avatar, &totpSecret,
		&status, &u.RoleID, &createdBy, &updatedBy, &deletedBy, &deletedAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.Avatar = mapNullStringPtr(avatar)
	u.TOTPSecret = mapNullStringPtr(totpSecret)
	u.CreatedBy = mapNullStringPtr(createdBy)
	u.UpdatedBy = mapNullStringPtr(updatedBy)
	u.DeletedBy = mapNullStringPtr(deletedBy)
	u.DeletedAt = mapNullTimePtr(deletedAt)
	u.Status = domain.UserStatus(status)
	return u, nil
}

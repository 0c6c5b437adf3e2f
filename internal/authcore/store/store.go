package store

import (
	"context"
	"errors"

	"github.com/shopvn/authcore/internal/authcore/domain"
)

// Narrow storage error vocabulary. Services classify these into domain
// errors at the catch site; nothing driver-specific leaks past this package.
var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	ErrForeignKey    = errors.New("store: foreign key violation")
)

// Store is the root credential-store interface. Concrete drivers (sqlite for
// now) implement it. Sub-repositories keep concerns tidy and make the fakes
// in tests small.
type Store interface {
	Users() Users
	Roles() Roles
	Devices() Devices
	RefreshTokens() RefreshTokens
	VerificationCodes() VerificationCodes

	ApplyMigrations() error

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Use it for multi-step sequences that
	// need atomicity, e.g. delete-old/create-new during refresh rotation.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a non-deleted user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns a non-deleted user by email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByEmailWithRole is GetUserByEmail joined with the role row,
	// used by the login flow.
	GetUserByEmailWithRole(ctx context.Context, email string) (domain.User, domain.Role, error)

	// CreateUser inserts a new user (id provided by the app via ULID).
	// Returns ErrAlreadyExists on an email uniqueness violation.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets password_hash, records who changed it and
	// bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash, updatedBy string) error

	// UpdateTOTPSecret sets or clears (nil) the TOTP secret.
	UpdateTOTPSecret(ctx context.Context, userID string, secret *string, updatedBy string) error
}

type Roles interface {
	GetRoleByID(ctx context.Context, id string) (domain.Role, error)

	// GetRoleByName fetches an active role by its name, e.g. the default
	// "Client" role assigned at registration.
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)
}

type Devices interface {
	// CreateDevice inserts a new device row. Every login creates one;
	// there is no device-matching or reuse logic.
	CreateDevice(ctx context.Context, d domain.Device) error

	GetDeviceByID(ctx context.Context, id string) (domain.Device, error)

	// TouchDevice updates user_agent/ip and bumps last_active.
	TouchDevice(ctx context.Context, deviceID, userAgent, ip string) error

	// DeactivateDevice flips is_active off. Used by logout.
	DeactivateDevice(ctx context.Context, deviceID string) error
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenWithUser returns the token row joined with its owning
	// user and role. ErrNotFound here is the reuse-detection signal.
	GetRefreshTokenWithUser(ctx context.Context, token string) (domain.RefreshTokenWithUser, error)

	// DeleteRefreshToken removes the row and returns it. ErrNotFound keeps
	// the same reuse signal for logout.
	DeleteRefreshToken(ctx context.Context, token string) (domain.RefreshToken, error)

	// DeleteExpiredRefreshTokens is housekeeping only; the core never
	// relies on it for correctness.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}

type VerificationCodes interface {
	// UpsertVerificationCode writes the code keyed by (email, purpose),
	// overwriting any outstanding code and expiry for that pair.
	UpsertVerificationCode(ctx context.Context, c domain.VerificationCode) error

	// GetVerificationCode looks a code up by its (email, code, purpose)
	// uniqueness key. Expiry is the caller's concern.
	GetVerificationCode(ctx context.Context, email, code string, purpose domain.CodePurpose) (domain.VerificationCode, error)

	// DeleteVerificationCode removes a consumed code.
	DeleteVerificationCode(ctx context.Context, email, code string, purpose domain.CodePurpose) error

	// DeleteExpiredVerificationCodes is housekeeping only.
	DeleteExpiredVerificationCodes(ctx context.Context) error
}

package store

import (
	"context"
	"errors"
	"time"

	"github.com/vantagehq/vantage/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and a transaction entry point for multi-step operations that
// must be atomic.
type Store interface {
	Users() Users
	AdminProfiles() AdminProfiles
	Roles() Roles
	Permissions() Permissions
	Companies() Companies
	APIKeys() APIKeys

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run transactional work.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and the one-time token flows.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByVerifyTokenHash looks a user up by the fingerprint of an
	// outstanding verification token.
	GetUserByVerifyTokenHash(ctx context.Context, hash string) (domain.User, error)

	// GetUserByResetTokenHash looks a user up by the fingerprint of an
	// outstanding reset token. Expiry is checked by the caller.
	GetUserByResetTokenHash(ctx context.Context, hash string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (bcrypt) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// SetRefreshTokenHash overwrites the user's single refresh slot. An
	// empty hash clears the slot (logout).
	SetRefreshTokenHash(ctx context.Context, userID, hash string) error

	// SetVerifyTokenHash stores the fingerprint of a newly issued
	// verification token, replacing any previous one.
	SetVerifyTokenHash(ctx context.Context, userID, hash string) error

	// MarkVerified flips the verified flag and clears the verification
	// token fingerprint in one statement.
	MarkVerified(ctx context.Context, userID string) error

	// SetResetToken stores the fingerprint and expiry of a newly issued
	// reset token, replacing any previous one.
	SetResetToken(ctx context.Context, userID, hash string, expiresAt time.Time) error

	// ClearResetToken removes any outstanding reset token state.
	ClearResetToken(ctx context.Context, userID string) error

	// ListUsersByCompany returns a company's users ordered by creation date.
	ListUsersByCompany(ctx context.Context, companyID string) ([]domain.User, error)

	// DeleteUser removes the user. Admin profiles cascade per schema.
	DeleteUser(ctx context.Context, userID string) error
}

type AdminProfiles interface {
	// GetByUserID returns the admin profile for a user, including role ids.
	GetByUserID(ctx context.Context, userID string) (domain.AdminProfile, error)

	// GetByID returns an admin profile by its own id, including role ids.
	GetByID(ctx context.Context, id string) (domain.AdminProfile, error)

	// Create inserts a profile and its role assignments.
	Create(ctx context.Context, p domain.AdminProfile) error

	// SetRoles replaces the profile's role assignments.
	SetRoles(ctx context.Context, profileID string, roleIDs []string) error

	// List returns all admin profiles ordered by creation date.
	List(ctx context.Context) ([]domain.AdminProfile, error)

	// Delete removes the profile and its role assignments.
	Delete(ctx context.Context, profileID string) error
}

type Roles interface {
	GetRoleByID(ctx context.Context, id string) (domain.Role, error)
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)
	CreateRole(ctx context.Context, r domain.Role) error
	RenameRole(ctx context.Context, roleID, name string) error

	// SetPermissions replaces the role's permission assignments.
	SetPermissions(ctx context.Context, roleID string, permissionIDs []string) error

	ListRoles(ctx context.Context) ([]domain.Role, error)
	DeleteRole(ctx context.Context, roleID string) error

	// GetPermissionsForRoleNames resolves role names to the union of their
	// permissions. Unknown role names contribute nothing.
	GetPermissionsForRoleNames(ctx context.Context, names []string) ([]domain.Permission, error)

	// GetRoleNamesForIDs resolves role ids to names, used when minting
	// admin access tokens.
	GetRoleNamesForIDs(ctx context.Context, ids []string) ([]string, error)
}

type Permissions interface {
	GetPermissionByID(ctx context.Context, id string) (domain.Permission, error)
	CreatePermission(ctx context.Context, p domain.Permission) error
	ListPermissions(ctx context.Context) ([]domain.Permission, error)
	DeletePermission(ctx context.Context, id string) error
}

type Companies interface {
	GetCompanyByID(ctx context.Context, id string) (domain.Company, error)
	CreateCompany(ctx context.Context, c domain.Company) error
	RenameCompany(ctx context.Context, companyID, name string) error
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	DeleteCompany(ctx context.Context, companyID string) error
}

type APIKeys interface {
	// GetByTokenHash looks a live key up by its fingerprint during request
	// authentication. Revoked keys are not found.
	GetByTokenHash(ctx context.Context, hash string) (domain.APIKey, error)

	GetByID(ctx context.Context, id string) (domain.APIKey, error)
	Create(ctx context.Context, k domain.APIKey) error

	// ListByCompany returns a company's live keys. Revoked keys are kept in
	// the table but never listed.
	ListByCompany(ctx context.Context, companyID string) ([]domain.APIKey, error)

	// Revoke stamps revoked_at on a live key. A revoked key no longer
	// authenticates; revoking it again reports ErrNotFound.
	Revoke(ctx context.Context, id string, at time.Time) error

	// TouchLastUsed records that the key authenticated a request.
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
}

package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vantagehq/vantage/internal/domain"
	"github.com/vantagehq/vantage/internal/store"
	"github.com/vantagehq/vantage/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestUser(email string) domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUsers_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	byID, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, byID.Email)
	require.False(t, byID.Verified)
	require.Empty(t, byID.RefreshTokenHash)

	byEmail, err := s.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users().CreateUser(ctx, newTestUser("dup@example.com")))
	err := s.Users().CreateUser(ctx, newTestUser("dup@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsers_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Users().GetUserByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.Users().SetRefreshTokenHash(ctx, idx.New().String(), "hash")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_RefreshSlot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("slot@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().SetRefreshTokenHash(ctx, u.ID, "first-hash"))
	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "first-hash", got.RefreshTokenHash)

	// Overwriting replaces; clearing empties.
	require.NoError(t, s.Users().SetRefreshTokenHash(ctx, u.ID, "second-hash"))
	require.NoError(t, s.Users().SetRefreshTokenHash(ctx, u.ID, ""))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, got.RefreshTokenHash)
}

func TestUsers_VerifyFlow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("verify@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))
	require.NoError(t, s.Users().SetVerifyTokenHash(ctx, u.ID, "fingerprint"))

	found, err := s.Users().GetUserByVerifyTokenHash(ctx, "fingerprint")
	require.NoError(t, err)
	require.Equal(t, u.ID, found.ID)

	require.NoError(t, s.Users().MarkVerified(ctx, u.ID))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.Verified)
	require.Empty(t, got.VerifyTokenHash)

	_, err = s.Users().GetUserByVerifyTokenHash(ctx, "fingerprint")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_ResetFlow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("reset@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	expires := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, s.Users().SetResetToken(ctx, u.ID, "reset-fp", expires))

	found, err := s.Users().GetUserByResetTokenHash(ctx, "reset-fp")
	require.NoError(t, err)
	require.Equal(t, u.ID, found.ID)
	require.NotNil(t, found.ResetTokenExpiresAt)
	require.WithinDuration(t, expires, *found.ResetTokenExpiresAt, time.Second)

	require.NoError(t, s.Users().ClearResetToken(ctx, u.ID))
	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, got.ResetTokenHash)
	require.Nil(t, got.ResetTokenExpiresAt)
}

func TestRolesAndPermissions_Resolution(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	read := domain.Permission{ID: idx.New().String(), Action: "read", Subject: "Company", CreatedAt: now, UpdatedAt: now}
	update := domain.Permission{ID: idx.New().String(), Action: "update", Subject: "Company", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Permissions().CreatePermission(ctx, read))
	require.NoError(t, s.Permissions().CreatePermission(ctx, update))

	viewer := domain.Role{ID: idx.New().String(), Name: "viewer", PermissionIDs: []string{read.ID}, CreatedAt: now, UpdatedAt: now}
	editor := domain.Role{ID: idx.New().String(), Name: "editor", PermissionIDs: []string{read.ID, update.ID}, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Roles().CreateRole(ctx, viewer))
	require.NoError(t, s.Roles().CreateRole(ctx, editor))

	perms, err := s.Roles().GetPermissionsForRoleNames(ctx, []string{"viewer"})
	require.NoError(t, err)
	require.Len(t, perms, 1)
	require.Equal(t, "read:Company", perms[0].String())

	// Union across roles, deduplicated.
	perms, err = s.Roles().GetPermissionsForRoleNames(ctx, []string{"viewer", "editor"})
	require.NoError(t, err)
	require.Len(t, perms, 2)

	// Unknown role names contribute nothing.
	perms, err = s.Roles().GetPermissionsForRoleNames(ctx, []string{"ghost"})
	require.NoError(t, err)
	require.Empty(t, perms)

	names, err := s.Roles().GetRoleNamesForIDs(ctx, []string{viewer.ID, editor.ID})
	require.NoError(t, err)
	require.Equal(t, []string{"editor", "viewer"}, names)
}

func TestAdminProfiles_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	u := newTestUser("admin@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	role := domain.Role{ID: idx.New().String(), Name: "ops", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Roles().CreateRole(ctx, role))

	company := domain.Company{ID: idx.New().String(), Name: "Acme", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Companies().CreateCompany(ctx, company))

	profile := domain.AdminProfile{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Name:      "Ops Admin",
		CompanyID: company.ID,
		RoleIDs:   []string{role.ID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.AdminProfiles().Create(ctx, profile))

	got, err := s.AdminProfiles().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, profile.ID, got.ID)
	require.Equal(t, "Ops Admin", got.Name)
	require.Equal(t, company.ID, got.CompanyID)
	require.Equal(t, []string{role.ID}, got.RoleIDs)

	// Deleting the company clears the association without touching the
	// profile itself.
	require.NoError(t, s.Companies().DeleteCompany(ctx, company.ID))
	got, err = s.AdminProfiles().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, got.CompanyID)

	// A second profile for the same user violates the unique constraint.
	dup := profile
	dup.ID = idx.New().String()
	require.ErrorIs(t, s.AdminProfiles().Create(ctx, dup), store.ErrAlreadyExists)

	// Deleting the user cascades to the profile.
	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))
	_, err = s.AdminProfiles().GetByUserID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAPIKeys_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	company := domain.Company{ID: idx.New().String(), Name: "Acme", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Companies().CreateCompany(ctx, company))

	key := domain.APIKey{
		ID:          idx.New().String(),
		CompanyID:   company.ID,
		Name:        "ci",
		TokenHash:   "deadbeef",
		Permissions: []string{"read:Company", "read:User"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.APIKeys().Create(ctx, key))

	got, err := s.APIKeys().GetByTokenHash(ctx, "deadbeef")
	require.NoError(t, err)
	require.Equal(t, key.ID, got.ID)
	require.Equal(t, []string{"read:Company", "read:User"}, got.Permissions)
	require.Nil(t, got.LastUsedAt)

	used := now.Add(time.Minute).Truncate(time.Second)
	require.NoError(t, s.APIKeys().TouchLastUsed(ctx, key.ID, used))
	got, err = s.APIKeys().GetByID(ctx, key.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastUsedAt)

	keys, err := s.APIKeys().ListByCompany(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, keys, 1)

	// Revocation keeps the row but hides it from authentication and
	// listings. Revoking twice reports not-found.
	require.NoError(t, s.APIKeys().Revoke(ctx, key.ID, now.Add(2*time.Minute)))
	require.ErrorIs(t, s.APIKeys().Revoke(ctx, key.ID, now.Add(3*time.Minute)), store.ErrNotFound)

	_, err = s.APIKeys().GetByTokenHash(ctx, "deadbeef")
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err = s.APIKeys().GetByID(ctx, key.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)

	keys, err = s.APIKeys().ListByCompany(ctx, company.ID)
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("tx@example.com")
	errBoom := context.Canceled

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = s.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTx_Commit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("commit@example.com")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().CreateUser(ctx, u)
	})
	require.NoError(t, err)

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
}

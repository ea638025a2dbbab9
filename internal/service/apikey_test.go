package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vantagehq/vantage/internal/store/drivers/sqlite"
)

func newAPIKeyFixture(t *testing.T) (*APIKeyService, *CompanyService) {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	return &APIKeyService{Store: s}, &CompanyService{Store: s}
}

func TestAPIKeys_CreateAndAuthenticate(t *testing.T) {
	keys, companies := newAPIKeyFixture(t)
	ctx := context.Background()

	company, err := companies.Create(ctx, "Acme")
	require.NoError(t, err)

	key, raw, err := keys.Create(ctx, company.ID, "ci", []string{"read:Company"})
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	// The raw key is never stored.
	require.NotEqual(t, raw, key.TokenHash)

	got, err := keys.Authenticate(ctx, raw)
	require.NoError(t, err)
	require.Equal(t, key.ID, got.ID)
	require.Equal(t, []string{"read:Company"}, got.Permissions)

	_, err = keys.Authenticate(ctx, "not-a-key")
	require.ErrorIs(t, err, ErrInvalidToken)
	_, err = keys.Authenticate(ctx, "")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAPIKeys_Validation(t *testing.T) {
	keys, companies := newAPIKeyFixture(t)
	ctx := context.Background()

	company, err := companies.Create(ctx, "Acme")
	require.NoError(t, err)

	_, _, err = keys.Create(ctx, company.ID, "", nil)
	require.ErrorIs(t, err, ErrValidation)

	_, _, err = keys.Create(ctx, company.ID, "bad-perms", []string{"malformed"})
	require.ErrorIs(t, err, ErrValidation)

	_, _, err = keys.Create(ctx, "no-such-company", "ci", nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAPIKeys_RevokeKeepsRecord(t *testing.T) {
	keys, companies := newAPIKeyFixture(t)
	ctx := context.Background()

	company, err := companies.Create(ctx, "Acme")
	require.NoError(t, err)
	key, raw, err := keys.Create(ctx, company.ID, "ci", nil)
	require.NoError(t, err)

	require.NoError(t, keys.Revoke(ctx, key.ID))
	_, err = keys.Authenticate(ctx, raw)
	require.ErrorIs(t, err, ErrInvalidToken)
	require.ErrorIs(t, keys.Revoke(ctx, key.ID), ErrNotFound)

	// The row survives with its revocation stamp; listings hide it.
	got, err := keys.Store.APIKeys().GetByID(ctx, key.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)

	live, err := keys.List(ctx, company.ID)
	require.NoError(t, err)
	require.Empty(t, live)
}

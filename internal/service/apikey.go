package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/vantagehq/vantage/internal/domain"
	"github.com/vantagehq/vantage/internal/store"
	"github.com/vantagehq/vantage/pkg/cryptox"
	"github.com/vantagehq/vantage/pkg/idx"
	"github.com/vantagehq/vantage/pkg/slogx"
)

// APIKeyService manages machine credentials. Raw keys are returned exactly
// once at creation; only fingerprints are stored.
type APIKeyService struct {
	Store store.Store

	Now func() time.Time
}

func (s *APIKeyService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create mints a new key for a company with a flat permission list. The
// returned string is the raw key.
func (s *APIKeyService) Create(ctx context.Context, companyID, name string, permissions []string) (domain.APIKey, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.APIKey{}, "", ErrValidation
	}
	for _, p := range permissions {
		if _, _, ok := domain.ParsePermission(p); !ok {
			return domain.APIKey{}, "", ErrValidation
		}
	}

	if _, err := s.Store.Companies().GetCompanyByID(ctx, companyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.APIKey{}, "", ErrNotFound
		}
		return domain.APIKey{}, "", err
	}

	rawKey, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.APIKey{}, "", err
	}

	now := s.now().UTC()
	key := domain.APIKey{
		ID:          idx.New().String(),
		CompanyID:   companyID,
		Name:        name,
		TokenHash:   cryptox.FingerprintToken(rawKey),
		Permissions: permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Store.APIKeys().Create(ctx, key); err != nil {
		return domain.APIKey{}, "", err
	}

	slogx.FromContext(ctx).Info("api key created",
		slog.String("key_id", key.ID),
		slog.String("company_id", companyID),
	)
	return key, rawKey, nil
}

// Authenticate resolves a raw key to its record, updating last-use. Unknown
// keys fail with the same error regardless of why.
func (s *APIKeyService) Authenticate(ctx context.Context, rawKey string) (domain.APIKey, error) {
	rawKey = strings.TrimSpace(rawKey)
	if rawKey == "" {
		return domain.APIKey{}, ErrInvalidToken
	}

	key, err := s.Store.APIKeys().GetByTokenHash(ctx, cryptox.FingerprintToken(rawKey))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.APIKey{}, ErrInvalidToken
		}
		return domain.APIKey{}, err
	}

	if err := s.Store.APIKeys().TouchLastUsed(ctx, key.ID, s.now().UTC()); err != nil {
		// Last-use bookkeeping must not fail authentication.
		slogx.FromContext(ctx).Warn("api key last-use update failed", slog.String("key_id", key.ID))
	}
	return key, nil
}

func (s *APIKeyService) List(ctx context.Context, companyID string) ([]domain.APIKey, error) {
	return s.Store.APIKeys().ListByCompany(ctx, companyID)
}

// Revoke stamps the key dead. The record survives for audit; only live keys
// authenticate or appear in listings.
func (s *APIKeyService) Revoke(ctx context.Context, id string) error {
	err := s.Store.APIKeys().Revoke(ctx, id, s.now().UTC())
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

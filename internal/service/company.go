package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vantagehq/vantage/internal/domain"
	"github.com/vantagehq/vantage/internal/store"
	"github.com/vantagehq/vantage/pkg/idx"
)

// CompanyService manages tenants.
type CompanyService struct {
	Store store.Store

	Now func() time.Time
}

func (s *CompanyService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *CompanyService) Create(ctx context.Context, name string) (domain.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Company{}, ErrValidation
	}

	now := s.now().UTC()
	company := domain.Company{
		ID:        idx.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.Companies().CreateCompany(ctx, company); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Company{}, ErrConflict
		}
		return domain.Company{}, err
	}
	return company, nil
}

func (s *CompanyService) Get(ctx context.Context, id string) (domain.Company, error) {
	company, err := s.Store.Companies().GetCompanyByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Company{}, ErrNotFound
		}
		return domain.Company{}, err
	}
	return company, nil
}

func (s *CompanyService) List(ctx context.Context) ([]domain.Company, error) {
	return s.Store.Companies().ListCompanies(ctx)
}

func (s *CompanyService) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrValidation
	}

	err := s.Store.Companies().RenameCompany(ctx, id, name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrConflict
	}
	return err
}

func (s *CompanyService) Delete(ctx context.Context, id string) error {
	err := s.Store.Companies().DeleteCompany(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// ListUsers returns the company's users.
func (s *CompanyService) ListUsers(ctx context.Context, companyID string) ([]domain.User, error) {
	if _, err := s.Store.Companies().GetCompanyByID(ctx, companyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Store.Users().ListUsersByCompany(ctx, companyID)
}

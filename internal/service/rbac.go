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

// RBACService manages roles, permissions and administrator profiles.
type RBACService struct {
	Store store.Store

	Now func() time.Time
}

func (s *RBACService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *RBACService) CreateRole(ctx context.Context, name string, permissionIDs []string) (domain.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Role{}, ErrValidation
	}

	now := s.now().UTC()
	role := domain.Role{
		ID:            idx.New().String(),
		Name:          name,
		PermissionIDs: permissionIDs,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Store.Roles().CreateRole(ctx, role); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Role{}, ErrConflict
		}
		return domain.Role{}, err
	}
	return role, nil
}

func (s *RBACService) GetRole(ctx context.Context, id string) (domain.Role, error) {
	role, err := s.Store.Roles().GetRoleByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Role{}, ErrNotFound
		}
		return domain.Role{}, err
	}
	return role, nil
}

func (s *RBACService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.Store.Roles().ListRoles(ctx)
}

func (s *RBACService) RenameRole(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrValidation
	}

	err := s.Store.Roles().RenameRole(ctx, id, name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrConflict
	}
	return err
}

func (s *RBACService) SetRolePermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	if _, err := s.Store.Roles().GetRoleByID(ctx, roleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.Store.Roles().SetPermissions(ctx, roleID, permissionIDs)
}

func (s *RBACService) DeleteRole(ctx context.Context, id string) error {
	err := s.Store.Roles().DeleteRole(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *RBACService) CreatePermission(ctx context.Context, action, subject string) (domain.Permission, error) {
	action = strings.TrimSpace(action)
	subject = strings.TrimSpace(subject)
	if action == "" || subject == "" || strings.Contains(action, ":") {
		return domain.Permission{}, ErrValidation
	}

	now := s.now().UTC()
	perm := domain.Permission{
		ID:        idx.New().String(),
		Action:    action,
		Subject:   subject,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.Permissions().CreatePermission(ctx, perm); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Permission{}, ErrConflict
		}
		return domain.Permission{}, err
	}
	return perm, nil
}

func (s *RBACService) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	return s.Store.Permissions().ListPermissions(ctx)
}

func (s *RBACService) DeletePermission(ctx context.Context, id string) error {
	err := s.Store.Permissions().DeletePermission(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// PromoteAdmin creates an admin profile for an existing user with the given
// roles. A blank display name falls back to the user's own name; a non-empty
// companyID scopes the profile to an existing tenant.
func (s *RBACService) PromoteAdmin(ctx context.Context, userID, name, companyID string, roleIDs []string) (domain.AdminProfile, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AdminProfile{}, ErrNotFound
		}
		return domain.AdminProfile{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = user.Name
	}

	if companyID != "" {
		if _, err := s.Store.Companies().GetCompanyByID(ctx, companyID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.AdminProfile{}, ErrValidation
			}
			return domain.AdminProfile{}, err
		}
	}

	now := s.now().UTC()
	profile := domain.AdminProfile{
		ID:        idx.New().String(),
		UserID:    userID,
		Name:      name,
		CompanyID: companyID,
		RoleIDs:   roleIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.AdminProfiles().Create(ctx, profile); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.AdminProfile{}, ErrConflict
		}
		return domain.AdminProfile{}, err
	}
	return profile, nil
}

func (s *RBACService) ListAdmins(ctx context.Context) ([]domain.AdminProfile, error) {
	return s.Store.AdminProfiles().List(ctx)
}

func (s *RBACService) SetAdminRoles(ctx context.Context, profileID string, roleIDs []string) error {
	if _, err := s.Store.AdminProfiles().GetByID(ctx, profileID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.Store.AdminProfiles().SetRoles(ctx, profileID, roleIDs)
}

// DemoteAdmin removes the profile. The underlying user account remains.
func (s *RBACService) DemoteAdmin(ctx context.Context, profileID string) error {
	err := s.Store.AdminProfiles().Delete(ctx, profileID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

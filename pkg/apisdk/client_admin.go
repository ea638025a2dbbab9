package apisdk

import (
	"context"
	"net/http"
	"net/url"
)

// Administrative surface. Every call needs either a bearer token whose
// grants pass the permission guard or a suitably scoped API key on the
// client.

// CreateCompany creates a new tenant.
func (c *Client) CreateCompany(ctx context.Context, bearer, name string) (*CompanyResponse, error) {
	var out CompanyResponse
	err := c.postJSON(ctx, "/v1/companies", bearer, CreateCompanyRequest{Name: name}, &out, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCompanies lists all tenants.
func (c *Client) ListCompanies(ctx context.Context, bearer string) ([]CompanyResponse, error) {
	var out []CompanyResponse
	if err := c.getJSON(ctx, "/v1/companies", bearer, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCompany fetches a single tenant by id.
func (c *Client) GetCompany(ctx context.Context, bearer, id string) (*CompanyResponse, error) {
	var out CompanyResponse
	if err := c.getJSON(ctx, "/v1/companies/"+url.PathEscape(id), bearer, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RenameCompany changes a tenant's name.
func (c *Client) RenameCompany(ctx context.Context, bearer, id, name string) error {
	return c.doJSON(ctx, http.MethodPatch, "/v1/companies/"+url.PathEscape(id), bearer,
		RenameRequest{Name: name}, nil, http.StatusOK)
}

// DeleteCompany removes a tenant and everything scoped to it.
func (c *Client) DeleteCompany(ctx context.Context, bearer, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/companies/"+url.PathEscape(id), bearer,
		nil, nil, http.StatusNoContent)
}

// ListCompanyUsers lists the users belonging to a tenant.
func (c *Client) ListCompanyUsers(ctx context.Context, bearer, id string) ([]UserResponse, error) {
	var out []UserResponse
	if err := c.getJSON(ctx, "/v1/companies/"+url.PathEscape(id)+"/users", bearer, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAPIKey mints a new API key for a tenant. The returned Key field is
// the only time the raw secret is visible.
func (c *Client) CreateAPIKey(ctx context.Context, bearer, companyID string, req CreateAPIKeyRequest) (*APIKeyCreatedResponse, error) {
	var out APIKeyCreatedResponse
	err := c.postJSON(ctx, "/v1/companies/"+url.PathEscape(companyID)+"/api-keys", bearer, req, &out, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAPIKeys lists a tenant's API keys without their secrets.
func (c *Client) ListAPIKeys(ctx context.Context, bearer, companyID string) ([]APIKeyResponse, error) {
	var out []APIKeyResponse
	if err := c.getJSON(ctx, "/v1/companies/"+url.PathEscape(companyID)+"/api-keys", bearer, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAPIKey revokes an API key immediately.
func (c *Client) DeleteAPIKey(ctx context.Context, bearer, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/api-keys/"+url.PathEscape(id), bearer,
		nil, nil, http.StatusNoContent)
}

// CreateRole creates a role, optionally with an initial permission set.
func (c *Client) CreateRole(ctx context.Context, bearer string, req CreateRoleRequest) (*RoleResponse, error) {
	var out RoleResponse
	if err := c.postJSON(ctx, "/v1/roles", bearer, req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRoles lists all roles.
func (c *Client) ListRoles(ctx context.Context, bearer string) ([]RoleResponse, error) {
	var out []RoleResponse
	if err := c.getJSON(ctx, "/v1/roles", bearer, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRole fetches a single role by id.
func (c *Client) GetRole(ctx context.Context, bearer, id string) (*RoleResponse, error) {
	var out RoleResponse
	if err := c.getJSON(ctx, "/v1/roles/"+url.PathEscape(id), bearer, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RenameRole changes a role's name.
func (c *Client) RenameRole(ctx context.Context, bearer, id, name string) error {
	return c.doJSON(ctx, http.MethodPatch, "/v1/roles/"+url.PathEscape(id), bearer,
		RenameRequest{Name: name}, nil, http.StatusOK)
}

// SetRolePermissions replaces a role's permission assignments.
func (c *Client) SetRolePermissions(ctx context.Context, bearer, id string, permissionIDs []string) error {
	return c.doJSON(ctx, http.MethodPut, "/v1/roles/"+url.PathEscape(id)+"/permissions", bearer,
		SetPermissionsRequest{PermissionIDs: permissionIDs}, nil, http.StatusOK)
}

// DeleteRole removes a role.
func (c *Client) DeleteRole(ctx context.Context, bearer, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/roles/"+url.PathEscape(id), bearer,
		nil, nil, http.StatusNoContent)
}

// CreatePermission registers a new action/subject pair.
func (c *Client) CreatePermission(ctx context.Context, bearer, action, subject string) (*PermissionResponse, error) {
	var out PermissionResponse
	err := c.postJSON(ctx, "/v1/permissions", bearer,
		CreatePermissionRequest{Action: action, Subject: subject}, &out, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPermissions lists every registered permission.
func (c *Client) ListPermissions(ctx context.Context, bearer string) ([]PermissionResponse, error) {
	var out []PermissionResponse
	if err := c.getJSON(ctx, "/v1/permissions", bearer, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeletePermission removes a permission.
func (c *Client) DeletePermission(ctx context.Context, bearer, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/permissions/"+url.PathEscape(id), bearer,
		nil, nil, http.StatusNoContent)
}

// PromoteAdmin grants a user an administrator profile.
func (c *Client) PromoteAdmin(ctx context.Context, bearer string, req PromoteAdminRequest) (*AdminProfileResponse, error) {
	var out AdminProfileResponse
	err := c.postJSON(ctx, "/v1/admins", bearer, req, &out, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAdmins lists all administrator profiles.
func (c *Client) ListAdmins(ctx context.Context, bearer string) ([]AdminProfileResponse, error) {
	var out []AdminProfileResponse
	if err := c.getJSON(ctx, "/v1/admins", bearer, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetAdminRoles replaces an administrator's role assignments.
func (c *Client) SetAdminRoles(ctx context.Context, bearer, profileID string, roleIDs []string) error {
	return c.doJSON(ctx, http.MethodPut, "/v1/admins/"+url.PathEscape(profileID)+"/roles", bearer,
		SetAdminRolesRequest{RoleIDs: roleIDs}, nil, http.StatusOK)
}

// DemoteAdmin removes an administrator profile. The underlying user account
// survives.
func (c *Client) DemoteAdmin(ctx context.Context, bearer, profileID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/admins/"+url.PathEscape(profileID), bearer,
		nil, nil, http.StatusNoContent)
}

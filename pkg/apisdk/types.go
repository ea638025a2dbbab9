package apisdk

// ============================================================================
// Request types
// ============================================================================

// RegisterRequest is the payload for POST /v1/auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Password  string `json:"password"`
	CompanyID string `json:"company_id,omitempty"`
}

// LoginRequest is the payload for POST /v1/auth/login and
// POST /v1/auth/admin/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the payload for POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// VerifyEmailRequest is the payload for POST /v1/auth/verify-email.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// ForgotPasswordRequest is the payload for POST /v1/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the payload for POST /v1/auth/reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResendVerificationRequest is the payload for POST /v1/auth/resend-verification.
type ResendVerificationRequest struct {
	Email string `json:"email"`
}

// ============================================================================
// Response types
// ============================================================================

// TokenResponse is the paired-token response returned by login, admin login
// and refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// MessageResponse is a generic acknowledgement body. Flows that must not
// reveal account existence always return the same message regardless of
// whether the account exists.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserinfoResponse describes the authenticated principal, derived from the
// validated access token.
type UserinfoResponse struct {
	Subject     string   `json:"sub"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	CompanyID   string   `json:"company_id,omitempty"`
	ProfileID   string   `json:"profile_id,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// ErrorResponse is the JSON error envelope returned by every endpoint.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// ============================================================================
// Administrative surface
// ============================================================================

// CreateCompanyRequest is the payload for POST /v1/companies.
type CreateCompanyRequest struct {
	Name string `json:"name"`
}

// RenameRequest is the payload for rename operations.
type RenameRequest struct {
	Name string `json:"name"`
}

// CompanyResponse describes a tenant.
type CompanyResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// UserResponse describes a user on the administrative surface. Credential
// and token material is never included.
type UserResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id,omitempty"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Verified  bool   `json:"verified"`
	CreatedAt string `json:"created_at"`
}

// CreateAPIKeyRequest is the payload for POST /v1/companies/{id}/api-keys.
type CreateAPIKeyRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// APIKeyResponse describes an API key without its secret.
type APIKeyResponse struct {
	ID          string   `json:"id"`
	CompanyID   string   `json:"company_id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	LastUsedAt  string   `json:"last_used_at,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

// APIKeyCreatedResponse carries the raw key exactly once, at creation.
type APIKeyCreatedResponse struct {
	APIKeyResponse
	Key string `json:"key"`
}

// CreateRoleRequest is the payload for POST /v1/roles.
type CreateRoleRequest struct {
	Name          string   `json:"name"`
	PermissionIDs []string `json:"permission_ids"`
}

// SetPermissionsRequest is the payload for PUT /v1/roles/{id}/permissions.
type SetPermissionsRequest struct {
	PermissionIDs []string `json:"permission_ids"`
}

// RoleResponse describes a role.
type RoleResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	PermissionIDs []string `json:"permission_ids"`
	CreatedAt     string   `json:"created_at"`
}

// CreatePermissionRequest is the payload for POST /v1/permissions.
type CreatePermissionRequest struct {
	Action  string `json:"action"`
	Subject string `json:"subject"`
}

// PermissionResponse describes a permission.
type PermissionResponse struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	Subject   string `json:"subject"`
	CreatedAt string `json:"created_at"`
}

// PromoteAdminRequest is the payload for POST /v1/admins. Name defaults to
// the user's own name; CompanyID optionally scopes the profile to a tenant.
type PromoteAdminRequest struct {
	UserID    string   `json:"user_id"`
	Name      string   `json:"name,omitempty"`
	CompanyID string   `json:"company_id,omitempty"`
	RoleIDs   []string `json:"role_ids"`
}

// SetAdminRolesRequest is the payload for PUT /v1/admins/{id}/roles.
type SetAdminRolesRequest struct {
	RoleIDs []string `json:"role_ids"`
}

// AdminProfileResponse describes an administrator profile.
type AdminProfileResponse struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id"`
	Name      string   `json:"name"`
	CompanyID string   `json:"company_id,omitempty"`
	RoleIDs   []string `json:"role_ids"`
	CreatedAt string   `json:"created_at"`
}

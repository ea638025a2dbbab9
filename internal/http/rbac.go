package http

import (
	"net/http"
	"time"

	"github.com/vantagehq/vantage/internal/domain"
	"github.com/vantagehq/vantage/internal/service"
	"github.com/vantagehq/vantage/pkg/apisdk"
	"github.com/vantagehq/vantage/pkg/httpx"
)

// RBACHandler serves role, permission and administrator management.
type RBACHandler struct {
	RBACService *service.RBACService
}

func roleResponse(role domain.Role) apisdk.RoleResponse {
	return apisdk.RoleResponse{
		ID:            role.ID,
		Name:          role.Name,
		PermissionIDs: role.PermissionIDs,
		CreatedAt:     role.CreatedAt.Format(time.RFC3339),
	}
}

func permissionResponse(p domain.Permission) apisdk.PermissionResponse {
	return apisdk.PermissionResponse{
		ID:        p.ID,
		Action:    p.Action,
		Subject:   p.Subject,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func adminProfileResponse(p domain.AdminProfile) apisdk.AdminProfileResponse {
	return apisdk.AdminProfileResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Name:      p.Name,
		CompanyID: p.CompanyID,
		RoleIDs:   p.RoleIDs,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

// HandleCreateRole godoc
//
//	@Summary	Create a role
//	@Tags		RBAC
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		apisdk.CreateRoleRequest	true	"Role name and permission ids"
//	@Success	201		{object}	apisdk.RoleResponse
//	@Failure	409		{object}	apisdk.ErrorResponse
//	@Router		/v1/roles [post].
func (h *RBACHandler) HandleCreateRole(w http.ResponseWriter, r *http.Request) {
	var req apisdk.CreateRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	role, err := h.RBACService.CreateRole(r.Context(), req.Name, req.PermissionIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, roleResponse(role))
}

// HandleListRoles godoc
//
//	@Summary	List roles
//	@Tags		RBAC
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}	apisdk.RoleResponse
//	@Router		/v1/roles [get].
func (h *RBACHandler) HandleListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.RBACService.ListRoles(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]apisdk.RoleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, roleResponse(role))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGetRole godoc
//
//	@Summary	Get a role
//	@Tags		RBAC
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Role ID"
//	@Success	200	{object}	apisdk.RoleResponse
//	@Failure	404	{object}	apisdk.ErrorResponse
//	@Router		/v1/roles/{id} [get].
func (h *RBACHandler) HandleGetRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.RBACService.GetRole(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, roleResponse(role))
}

// HandleRenameRole godoc
//
//	@Summary	Rename a role
//	@Tags		RBAC
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Role ID"
//	@Param		request	body		apisdk.RenameRequest	true	"New name"
//	@Success	200		{object}	apisdk.MessageResponse
//	@Failure	404		{object}	apisdk.ErrorResponse
//	@Router		/v1/roles/{id} [patch].
func (h *RBACHandler) HandleRenameRole(w http.ResponseWriter, r *http.Request) {
	var req apisdk.RenameRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.RBACService.RenameRole(r.Context(), r.PathValue("id"), req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, apisdk.MessageResponse{Message: "role renamed"})
}

// HandleSetRolePermissions godoc
//
//	@Summary	Replace a role's permissions
//	@Tags		RBAC
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Role ID"
//	@Param		request	body		apisdk.SetPermissionsRequest	true	"Permission ids"
//	@Success	200		{object}	apisdk.MessageResponse
//	@Failure	404		{object}	apisdk.ErrorResponse
//	@Router		/v1/roles/{id}/permissions [put].
func (h *RBACHandler) HandleSetRolePermissions(w http.ResponseWriter, r *http.Request) {
	var req apisdk.SetPermissionsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.RBACService.SetRolePermissions(r.Context(), r.PathValue("id"), req.PermissionIDs); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, apisdk.MessageResponse{Message: "permissions updated"})
}

// HandleDeleteRole godoc
//
//	@Summary	Delete a role
//	@Tags		RBAC
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Role ID"
//	@Success	204
//	@Failure	404	{object}	apisdk.ErrorResponse
//	@Router		/v1/roles/{id} [delete].
func (h *RBACHandler) HandleDeleteRole(w http.ResponseWriter, r *http.Request) {
	if err := h.RBACService.DeleteRole(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreatePermission godoc
//
//	@Summary	Create a permission
//	@Tags		RBAC
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		apisdk.CreatePermissionRequest	true	"Action and subject"
//	@Success	201		{object}	apisdk.PermissionResponse
//	@Failure	409		{object}	apisdk.ErrorResponse
//	@Router		/v1/permissions [post].
func (h *RBACHandler) HandleCreatePermission(w http.ResponseWriter, r *http.Request) {
	var req apisdk.CreatePermissionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	perm, err := h.RBACService.CreatePermission(r.Context(), req.Action, req.Subject)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, permissionResponse(perm))
}

// HandleListPermissions godoc
//
//	@Summary	List permissions
//	@Tags		RBAC
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}	apisdk.PermissionResponse
//	@Router		/v1/permissions [get].
func (h *RBACHandler) HandleListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.RBACService.ListPermissions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]apisdk.PermissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, permissionResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDeletePermission godoc
//
//	@Summary	Delete a permission
//	@Tags		RBAC
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Permission ID"
//	@Success	204
//	@Failure	404	{object}	apisdk.ErrorResponse
//	@Router		/v1/permissions/{id} [delete].
func (h *RBACHandler) HandleDeletePermission(w http.ResponseWriter, r *http.Request) {
	if err := h.RBACService.DeletePermission(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePromoteAdmin godoc
//
//	@Summary	Promote a user to administrator
//	@Tags		RBAC
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		apisdk.PromoteAdminRequest	true	"User and roles"
//	@Success	201		{object}	apisdk.AdminProfileResponse
//	@Failure	404		{object}	apisdk.ErrorResponse
//	@Failure	409		{object}	apisdk.ErrorResponse
//	@Router		/v1/admins [post].
func (h *RBACHandler) HandlePromoteAdmin(w http.ResponseWriter, r *http.Request) {
	var req apisdk.PromoteAdminRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	profile, err := h.RBACService.PromoteAdmin(r.Context(), req.UserID, req.Name, req.CompanyID, req.RoleIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, adminProfileResponse(profile))
}

// HandleListAdmins godoc
//
//	@Summary	List administrators
//	@Tags		RBAC
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}	apisdk.AdminProfileResponse
//	@Router		/v1/admins [get].
func (h *RBACHandler) HandleListAdmins(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.RBACService.ListAdmins(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]apisdk.AdminProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, adminProfileResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleSetAdminRoles godoc
//
//	@Summary	Replace an administrator's roles
//	@Tags		RBAC
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Admin profile ID"
//	@Param		request	body		apisdk.SetAdminRolesRequest	true	"Role ids"
//	@Success	200		{object}	apisdk.MessageResponse
//	@Failure	404		{object}	apisdk.ErrorResponse
//	@Router		/v1/admins/{id}/roles [put].
func (h *RBACHandler) HandleSetAdminRoles(w http.ResponseWriter, r *http.Request) {
	var req apisdk.SetAdminRolesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.RBACService.SetAdminRoles(r.Context(), r.PathValue("id"), req.RoleIDs); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, apisdk.MessageResponse{Message: "roles updated"})
}

// HandleDemoteAdmin godoc
//
//	@Summary	Demote an administrator
//	@Tags		RBAC
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Admin profile ID"
//	@Success	204
//	@Failure	404	{object}	apisdk.ErrorResponse
//	@Router		/v1/admins/{id} [delete].
func (h *RBACHandler) HandleDemoteAdmin(w http.ResponseWriter, r *http.Request) {
	if err := h.RBACService.DemoteAdmin(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

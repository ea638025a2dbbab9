package http

import (
	"net/http"
	"time"

	"github.com/vantagehq/vantage/internal/domain"
	"github.com/vantagehq/vantage/internal/service"
	"github.com/vantagehq/vantage/pkg/apisdk"
	"github.com/vantagehq/vantage/pkg/httpx"
)

// CompaniesHandler serves the tenant management endpoints.
type CompaniesHandler struct {
	CompanyService *service.CompanyService
}

func companyResponse(c domain.Company) apisdk.CompanyResponse {
	return apisdk.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func userResponse(u domain.User) apisdk.UserResponse {
	return apisdk.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// HandleCreate godoc
//
//	@Summary	Create a company
//	@Tags		Companies
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		apisdk.CreateCompanyRequest	true	"Company name"
//	@Success	201		{object}	apisdk.CompanyResponse
//	@Failure	403		{object}	apisdk.ErrorResponse
//	@Failure	409		{object}	apisdk.ErrorResponse
//	@Router		/v1/companies [post].
func (h *CompaniesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req apisdk.CreateCompanyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	company, err := h.CompanyService.Create(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, companyResponse(company))
}

// HandleList godoc
//
//	@Summary	List companies
//	@Tags		Companies
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		apisdk.CompanyResponse
//	@Failure	403	{object}	apisdk.ErrorResponse
//	@Router		/v1/companies [get].
func (h *CompaniesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	companies, err := h.CompanyService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]apisdk.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, companyResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary	Get a company
//	@Tags		Companies
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Company ID"
//	@Success	200	{object}	apisdk.CompanyResponse
//	@Failure	404	{object}	apisdk.ErrorResponse
//	@Router		/v1/companies/{id} [get].
func (h *CompaniesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	company, err := h.CompanyService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, companyResponse(company))
}

// HandleRename godoc
//
//	@Summary	Rename a company
//	@Tags		Companies
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Company ID"
//	@Param		request	body		apisdk.RenameRequest	true	"New name"
//	@Success	200		{object}	apisdk.MessageResponse
//	@Failure	404		{object}	apisdk.ErrorResponse
//	@Router		/v1/companies/{id} [patch].
func (h *CompaniesHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req apisdk.RenameRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.CompanyService.Rename(r.Context(), r.PathValue("id"), req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, apisdk.MessageResponse{Message: "company renamed"})
}

// HandleDelete godoc
//
//	@Summary	Delete a company
//	@Tags		Companies
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Company ID"
//	@Success	204
//	@Failure	404	{object}	apisdk.ErrorResponse
//	@Router		/v1/companies/{id} [delete].
func (h *CompaniesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.CompanyService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListUsers godoc
//
//	@Summary	List a company's users
//	@Tags		Companies
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Company ID"
//	@Success	200	{array}		apisdk.UserResponse
//	@Failure	404	{object}	apisdk.ErrorResponse
//	@Router		/v1/companies/{id}/users [get].
func (h *CompaniesHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.CompanyService.ListUsers(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]apisdk.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

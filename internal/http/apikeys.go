package http

import (
	"net/http"
	"time"

	"github.com/vantagehq/vantage/internal/domain"
	"github.com/vantagehq/vantage/internal/service"
	"github.com/vantagehq/vantage/pkg/apisdk"
	"github.com/vantagehq/vantage/pkg/httpx"
)

// APIKeysHandler serves machine credential management.
type APIKeysHandler struct {
	APIKeyService *service.APIKeyService
}

func apiKeyResponse(k domain.APIKey) apisdk.APIKeyResponse {
	resp := apisdk.APIKeyResponse{
		ID:          k.ID,
		CompanyID:   k.CompanyID,
		Name:        k.Name,
		Permissions: k.Permissions,
		CreatedAt:   k.CreatedAt.Format(time.RFC3339),
	}
	if k.LastUsedAt != nil {
		resp.LastUsedAt = k.LastUsedAt.Format(time.RFC3339)
	}
	return resp
}

// HandleCreate godoc
//
//	@Summary		Create an API key
//	@Description	Mints a key with a flat permission list. The raw key appears in this response only.
//	@Tags			APIKeys
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Company ID"
//	@Param			request	body		apisdk.CreateAPIKeyRequest	true	"Key name and permissions"
//	@Success		201		{object}	apisdk.APIKeyCreatedResponse
//	@Failure		403		{object}	apisdk.ErrorResponse
//	@Failure		404		{object}	apisdk.ErrorResponse
//	@Router			/v1/companies/{id}/api-keys [post].
func (h *APIKeysHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req apisdk.CreateAPIKeyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apisdk.ErrInvalidRequest.WriteError(w)
		return
	}

	key, rawKey, err := h.APIKeyService.Create(r.Context(), r.PathValue("id"), req.Name, req.Permissions)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, apisdk.APIKeyCreatedResponse{
		APIKeyResponse: apiKeyResponse(key),
		Key:            rawKey,
	})
}

// HandleList godoc
//
//	@Summary	List a company's API keys
//	@Tags		APIKeys
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Company ID"
//	@Success	200	{array}		apisdk.APIKeyResponse
//	@Failure	403	{object}	apisdk.ErrorResponse
//	@Router		/v1/companies/{id}/api-keys [get].
func (h *APIKeysHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	keys, err := h.APIKeyService.List(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]apisdk.APIKeyResponse, 0, len(keys))
	for _, k := range keys {
		out = append(out, apiKeyResponse(k))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDelete godoc
//
//	@Summary		Revoke an API key
//	@Description	The key stops authenticating immediately. The record is retained.
//	@Tags			APIKeys
//	@Security		BearerAuth
//	@Param			id	path	string	true	"API key ID"
//	@Success		204
//	@Failure		404	{object}	apisdk.ErrorResponse
//	@Router			/v1/api-keys/{id} [delete].
func (h *APIKeysHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.APIKeyService.Revoke(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

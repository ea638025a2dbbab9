package http

import (
	"net/http"

	"github.com/vantagehq/vantage/pkg/apisdk"
	"github.com/vantagehq/vantage/pkg/httpx"
)

// UserinfoHandler godoc
//
//	@Summary		Get the authenticated identity
//	@Description	Returns the identity described by the access token's claims.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	apisdk.UserinfoResponse
//	@Failure		401	{object}	apisdk.ErrorResponse
//	@Router			/v1/userinfo [get].
func UserinfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := httpx.ClaimsFromContext(r.Context())
		if !ok {
			apisdk.ErrInvalidToken.WriteError(w)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, apisdk.UserinfoResponse{
			Subject:     claims.Subject,
			Email:       claims.Email,
			Name:        claims.Name,
			Kind:        claims.Kind,
			CompanyID:   claims.CompanyID,
			ProfileID:   claims.ProfileID,
			Roles:       claims.Roles,
			Permissions: claims.Permissions,
		})
	}
}

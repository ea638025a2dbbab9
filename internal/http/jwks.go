package http

import (
	"net/http"

	"github.com/vantagehq/vantage/pkg/httpx"
	"github.com/vantagehq/vantage/pkg/jwtx"
)

// JWKSHandler exposes the JSON Web Key Set for access token verification.
//
//	@Summary		Get JWKS
//	@Description	Returns the public keys used to verify access tokens.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	jwtx.JWKS
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, keys.PublicJWKS())
	}
}

package http

import (
	"net/http"

	"github.com/vantagehq/vantage/internal/domain"
	"github.com/vantagehq/vantage/internal/service"
	"github.com/vantagehq/vantage/pkg/apisdk"
	"github.com/vantagehq/vantage/pkg/httpx"
)

// APIKeyHeader is the request header carrying a raw API key.
const APIKeyHeader = "X-API-Key"

// APIKeyOrJWTMiddleware authenticates the request either by API key or by
// bearer token. A present API key is resolved to a flat permission context;
// otherwise the request falls through to JWT authentication.
func APIKeyOrJWTMiddleware(keys *service.APIKeyService, jwtAuthn httpx.Middleware) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		jwtProtected := jwtAuthn(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawKey := r.Header.Get(APIKeyHeader)
			if rawKey == "" {
				jwtProtected.ServeHTTP(w, r)
				return
			}

			key, err := keys.Authenticate(r.Context(), rawKey)
			if err != nil {
				apisdk.ErrInvalidToken.WriteError(w)
				return
			}

			ctx := contextWithAuthContext(r.Context(), domain.PermissionsContext(key.Permissions))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

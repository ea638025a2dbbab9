package http

import (
	"context"
	"net/http"

	"github.com/vantagehq/vantage/internal/domain"
	"github.com/vantagehq/vantage/internal/service"
	"github.com/vantagehq/vantage/pkg/httpx"
)

type guardCtxKey string

// authCtxKey carries the resolved domain.AuthContext for the request, set
// by the API key middleware. JWT callers derive theirs from claims instead.
const authCtxKey guardCtxKey = "auth_context"

func contextWithAuthContext(ctx context.Context, actx domain.AuthContext) context.Context {
	return context.WithValue(ctx, authCtxKey, actx)
}

// authContextFrom derives the caller's grants. API keys take priority over
// claims; claims yield flat permissions when present, role names otherwise.
// An authenticated caller with no grants gets an empty role context, which
// the guard denies normally. Only a request with no principal at all yields
// the zero context.
func authContextFrom(r *http.Request) domain.AuthContext {
	if actx, ok := r.Context().Value(authCtxKey).(domain.AuthContext); ok {
		return actx
	}

	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		return domain.AuthContext{}
	}
	if len(claims.Permissions) > 0 {
		return domain.PermissionsContext(claims.Permissions)
	}
	return domain.RolesContext(claims.Roles)
}

// RequirePermissions gates a route behind the permission guard. All listed
// permissions are required.
func RequirePermissions(guard *service.Guard, required ...string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actx := authContextFrom(r)
			if err := guard.Authorize(r.Context(), required, actx); err != nil {
				writeServiceError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vantagehq/vantage/internal/obs"
	"github.com/vantagehq/vantage/internal/service"
	"github.com/vantagehq/vantage/internal/store"
	"github.com/vantagehq/vantage/pkg/httpx"
	"github.com/vantagehq/vantage/pkg/jwtx"
	"github.com/vantagehq/vantage/pkg/slogx"

	_ "github.com/vantagehq/vantage/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Permissions required by the administrative surface.
const (
	PermReadCompany   = "read:Company"
	PermManageCompany = "manage:Company"
	PermReadUser      = "read:User"
	PermReadAPIKey    = "read:APIKey"
	PermManageAPIKey  = "manage:APIKey"
	PermReadRole      = "read:Role"
	PermManageRole    = "manage:Role"
	PermReadAdmin     = "read:Admin"
	PermManageAdmin   = "manage:Admin"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	issuer       string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AuthService    *service.AuthService
	Guard          *service.Guard
	CompanyService *service.CompanyService
	APIKeyService  *service.APIKeyService
	RBACService    *service.RBACService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	issuer, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		issuer:       issuer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		obs.Instrument,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUserinfo()
	r.registerCompanies()
	r.registerAPIKeys()
	r.registerRBAC()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Vantage Authentication Service API
//	@version		0.1.0
//	@description	Authentication and authorization backend for multi-tenant deployments: paired access/refresh tokens,
//	@description	email verification and password reset flows, role and permission management, and company-scoped API keys.
//	@description
//	@description				Access tokens can be verified against the JWKS endpoint.
//
//	@contact.name				Vantage Team
//	@contact.url				https://github.com/vantagehq/vantage
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Credential and token endpoints get the strict profile to slow down
	// brute force and token guessing.
	strict := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, httpx.RateLimitByIP(httpx.StrictLimit))
	}

	r.Mux.Handle("POST /v1/auth/register", strict(h.HandleRegister))
	r.Mux.Handle("POST /v1/auth/login", strict(h.HandleLogin))
	r.Mux.Handle("POST /v1/auth/admin/login", strict(h.HandleAdminLogin))
	r.Mux.Handle("POST /v1/auth/refresh", strict(h.HandleRefresh))
	r.Mux.Handle("POST /v1/auth/verify-email", strict(h.HandleVerifyEmail))
	r.Mux.Handle("GET /v1/auth/verify-email", strict(h.HandleVerifyEmailLink))
	r.Mux.Handle("POST /v1/auth/forgot-password", strict(h.HandleForgotPassword))
	r.Mux.Handle("POST /v1/auth/reset-password", strict(h.HandleResetPassword))
	r.Mux.Handle("POST /v1/auth/resend-verification", strict(h.HandleResendVerification))

	// Logout needs a valid access token.
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUserinfo() {
	r.Mux.Handle("GET /v1/userinfo",
		httpx.Chain(UserinfoHandler(),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

// guarded wires the standard protection for an administrative route: API
// key or JWT authentication, then the permission guard, then a per-user
// rate limit.
func (r *Router) guarded(fn http.HandlerFunc, required ...string) http.Handler {
	return httpx.Chain(fn,
		APIKeyOrJWTMiddleware(r.APIKeyService, httpx.AuthnMiddleware(r.verifier)),
		RequirePermissions(r.Guard, required...),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
}

func (r *Router) registerCompanies() {
	h := &CompaniesHandler{CompanyService: r.CompanyService}

	r.Mux.Handle("POST /v1/companies", r.guarded(h.HandleCreate, PermManageCompany))
	r.Mux.Handle("GET /v1/companies", r.guarded(h.HandleList, PermReadCompany))
	r.Mux.Handle("GET /v1/companies/{id}", r.guarded(h.HandleGet, PermReadCompany))
	r.Mux.Handle("PATCH /v1/companies/{id}", r.guarded(h.HandleRename, PermManageCompany))
	r.Mux.Handle("DELETE /v1/companies/{id}", r.guarded(h.HandleDelete, PermManageCompany))
	r.Mux.Handle("GET /v1/companies/{id}/users", r.guarded(h.HandleListUsers, PermReadCompany, PermReadUser))
}

func (r *Router) registerAPIKeys() {
	h := &APIKeysHandler{APIKeyService: r.APIKeyService}

	r.Mux.Handle("POST /v1/companies/{id}/api-keys", r.guarded(h.HandleCreate, PermManageAPIKey))
	r.Mux.Handle("GET /v1/companies/{id}/api-keys", r.guarded(h.HandleList, PermReadAPIKey))
	r.Mux.Handle("DELETE /v1/api-keys/{id}", r.guarded(h.HandleDelete, PermManageAPIKey))
}

func (r *Router) registerRBAC() {
	h := &RBACHandler{RBACService: r.RBACService}

	r.Mux.Handle("POST /v1/roles", r.guarded(h.HandleCreateRole, PermManageRole))
	r.Mux.Handle("GET /v1/roles", r.guarded(h.HandleListRoles, PermReadRole))
	r.Mux.Handle("GET /v1/roles/{id}", r.guarded(h.HandleGetRole, PermReadRole))
	r.Mux.Handle("PATCH /v1/roles/{id}", r.guarded(h.HandleRenameRole, PermManageRole))
	r.Mux.Handle("PUT /v1/roles/{id}/permissions", r.guarded(h.HandleSetRolePermissions, PermManageRole))
	r.Mux.Handle("DELETE /v1/roles/{id}", r.guarded(h.HandleDeleteRole, PermManageRole))

	r.Mux.Handle("POST /v1/permissions", r.guarded(h.HandleCreatePermission, PermManageRole))
	r.Mux.Handle("GET /v1/permissions", r.guarded(h.HandleListPermissions, PermReadRole))
	r.Mux.Handle("DELETE /v1/permissions/{id}", r.guarded(h.HandleDeletePermission, PermManageRole))

	r.Mux.Handle("POST /v1/admins", r.guarded(h.HandlePromoteAdmin, PermManageAdmin))
	r.Mux.Handle("GET /v1/admins", r.guarded(h.HandleListAdmins, PermReadAdmin))
	r.Mux.Handle("PUT /v1/admins/{id}/roles", r.guarded(h.HandleSetAdminRoles, PermManageAdmin))
	r.Mux.Handle("DELETE /v1/admins/{id}", r.guarded(h.HandleDemoteAdmin, PermManageAdmin))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("GET /metrics", obs.Handler())
}

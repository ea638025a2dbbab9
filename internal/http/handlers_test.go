package http

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vantagehq/vantage/internal/service"
	"github.com/vantagehq/vantage/internal/store/drivers/sqlite"
	"github.com/vantagehq/vantage/pkg/apisdk"
	"github.com/vantagehq/vantage/pkg/cryptox"
	"github.com/vantagehq/vantage/pkg/httpx"
	"github.com/vantagehq/vantage/pkg/jwtx"
)

func TestMain(m *testing.M) {
	// Every request in this suite arrives from the loopback address, so the
	// per-IP production profiles would throttle the tests themselves.
	generous := httpx.RateLimitConfig{
		RequestsPerWindow: 10000,
		Window:            time.Minute,
		Burst:             10000,
	}
	httpx.StrictLimit = generous
	httpx.ModerateLimit = generous
	httpx.LenientLimit = generous
	httpx.PublicLimit = generous

	os.Exit(m.Run())
}

type captureNotifier struct {
	mu          sync.Mutex
	verifyToken string
	resetToken  string
}

func (n *captureNotifier) SendVerification(ctx context.Context, email, name, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.verifyToken = token
	return nil
}

func (n *captureNotifier) SendPasswordReset(ctx context.Context, email, name, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetToken = token
	return nil
}

func (n *captureNotifier) lastVerify() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.verifyToken
}

func (n *captureNotifier) lastReset() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.resetToken
}

type apiFixture struct {
	store    *sqlite.Store
	server   *httptest.Server
	client   *apisdk.Client
	notifier *captureNotifier
	rbac     *service.RBACService

	// clock is the injected service time, mutable mid-test.
	clock *time.Time
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	const issuer = "vantage-e2e"

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("e2e-key", pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	verifier := jwtx.NewCommonEdDSA(keys, issuer)

	secret := []byte("0123456789abcdef0123456789abcdef")
	refreshSigner, err := jwtx.NewHS256Signer(secret)
	require.NoError(t, err)
	refreshVerifier, err := jwtx.NewHS256Verifier(secret, issuer)
	require.NoError(t, err)

	now := time.Now().UTC()
	clock := &now
	nowFn := func() time.Time { return *clock }

	tokens := &service.TokenService{
		AccessSigner:  signer,
		RefreshSigner: refreshSigner,
		Issuer:        issuer,
		AccessTTL:     jwtx.DefaultAccessTokenTTL,
		RefreshTTL:    jwtx.DefaultRefreshTokenTTL,
		Now:           nowFn,
	}

	notifier := &captureNotifier{}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter(keys, verifier, issuer, "test", st, logger)
	router.AuthService = &service.AuthService{
		Store:           st,
		Tokens:          tokens,
		Notifier:        notifier,
		RefreshVerifier: refreshVerifier,
		Now:             nowFn,
	}
	router.Guard = &service.Guard{Store: st, SuperuserRole: service.DefaultSuperuserRole}
	router.CompanyService = &service.CompanyService{Store: st}
	router.APIKeyService = &service.APIKeyService{Store: st}
	router.RBACService = &service.RBACService{Store: st}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &apiFixture{
		store:    st,
		server:   server,
		client:   apisdk.NewClient(server.URL),
		notifier: notifier,
		rbac:     router.RBACService,
		clock:    clock,
	}
}

func (f *apiFixture) registerVerified(t *testing.T, email, name, password string) {
	t.Helper()
	ctx := context.Background()

	_, err := f.client.Register(ctx, apisdk.RegisterRequest{
		Email: email, Name: name, Password: password,
	})
	require.NoError(t, err)

	_, err = f.client.VerifyEmail(ctx, f.notifier.lastVerify())
	require.NoError(t, err)
}

// makeSuperuser bootstraps the first administrator directly through the
// service layer. There is no HTTP path for this because every admin route
// already demands an authorized caller.
func (f *apiFixture) makeSuperuser(t *testing.T, email, password string) string {
	t.Helper()
	ctx := context.Background()

	f.registerVerified(t, email, "Root", password)

	role, err := f.rbac.CreateRole(ctx, service.DefaultSuperuserRole, nil)
	require.NoError(t, err)

	user, err := f.store.Users().GetUserByEmail(ctx, email)
	require.NoError(t, err)

	_, err = f.rbac.PromoteAdmin(ctx, user.ID, "", "", []string{role.ID})
	require.NoError(t, err)

	pair, err := f.client.AdminLogin(ctx, email, password)
	require.NoError(t, err)
	return pair.AccessToken
}

func TestAuthLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	_, err := f.client.Register(ctx, apisdk.RegisterRequest{
		Email: "ana@example.com", Name: "Ana", Password: "hunter22!",
	})
	require.NoError(t, err)

	// Login before verification is refused with a distinct error so the UI
	// can offer a resend.
	_, err = f.client.Login(ctx, "ana@example.com", "hunter22!")
	require.ErrorIs(t, err, apisdk.ErrEmailNotVerified)

	_, err = f.client.VerifyEmail(ctx, f.notifier.lastVerify())
	require.NoError(t, err)

	pair, err := f.client.Login(ctx, "ana@example.com", "hunter22!")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	info, err := f.client.Userinfo(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", info.Email)
	require.Equal(t, "Ana", info.Name)
	require.Equal(t, jwtx.KindUser, info.Kind)
	require.NotEmpty(t, info.Subject)

	rotated, err := f.client.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, rotated.RefreshToken)

	// The consumed refresh token is dead.
	_, err = f.client.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, apisdk.ErrInvalidToken)

	require.NoError(t, f.client.Logout(ctx, rotated.AccessToken))

	_, err = f.client.Refresh(ctx, rotated.RefreshToken)
	require.ErrorIs(t, err, apisdk.ErrInvalidToken)
}

func TestAuthLifecycle_WrongCredentials(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	f.registerVerified(t, "ben@example.com", "Ben", "hunter22!")

	_, err := f.client.Login(ctx, "ben@example.com", "wrong-password")
	require.ErrorIs(t, err, apisdk.ErrInvalidCredentials)

	// Unknown addresses fail with the same error as wrong passwords.
	_, err = f.client.Login(ctx, "nobody@example.com", "hunter22!")
	require.ErrorIs(t, err, apisdk.ErrInvalidCredentials)

	// Ordinary users cannot use the admin entrance.
	_, err = f.client.AdminLogin(ctx, "ben@example.com", "hunter22!")
	require.ErrorIs(t, err, apisdk.ErrInvalidCredentials)
}

func TestAdminAccountCannotUseUserLogin(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	f.makeSuperuser(t, "root@example.com", "root-password1")

	// Correct credentials at the wrong entrance look like bad credentials.
	_, err := f.client.Login(ctx, "root@example.com", "root-password1")
	require.ErrorIs(t, err, apisdk.ErrInvalidCredentials)

	_, err = f.client.AdminLogin(ctx, "root@example.com", "root-password1")
	require.NoError(t, err)
}

func TestPasswordResetOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	f.registerVerified(t, "cal@example.com", "Cal", "old-password1")

	_, err := f.client.ForgotPassword(ctx, "cal@example.com")
	require.NoError(t, err)

	_, err = f.client.ResetPassword(ctx, f.notifier.lastReset(), "new-password1")
	require.NoError(t, err)

	_, err = f.client.Login(ctx, "cal@example.com", "old-password1")
	require.ErrorIs(t, err, apisdk.ErrInvalidCredentials)

	_, err = f.client.Login(ctx, "cal@example.com", "new-password1")
	require.NoError(t, err)
}

func TestPasswordResetExpiryOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	f.registerVerified(t, "late@example.com", "Late", "old-password1")

	_, err := f.client.ForgotPassword(ctx, "late@example.com")
	require.NoError(t, err)
	token := f.notifier.lastReset()

	*f.clock = f.clock.Add(61 * time.Minute)

	// Past expiry the failure names the expiry so the UI can prompt for a
	// fresh request; retrying the now-cleared token reads as plain invalid.
	_, err = f.client.ResetPassword(ctx, token, "new-password1")
	require.ErrorIs(t, err, apisdk.ErrExpiredToken)

	_, err = f.client.ResetPassword(ctx, token, "new-password1")
	require.ErrorIs(t, err, apisdk.ErrInvalidToken)
}

func TestGuardDeniesOrdinaryUsers(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	f.registerVerified(t, "dee@example.com", "Dee", "hunter22!")
	pair, err := f.client.Login(ctx, "dee@example.com", "hunter22!")
	require.NoError(t, err)

	// A plain user token carries no grants at all.
	_, err = f.client.CreateCompany(ctx, pair.AccessToken, "Initech")
	require.ErrorIs(t, err, apisdk.ErrAccessDenied)

	_, err = f.client.ListCompanies(ctx, pair.AccessToken)
	require.ErrorIs(t, err, apisdk.ErrAccessDenied)

	// No token at all is rejected before the guard even runs.
	_, err = f.client.ListCompanies(ctx, "")
	var apiErr *apisdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 401, apiErr.StatusCode)
}

func TestSuperuserAdminFlow(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	bearer := f.makeSuperuser(t, "root@example.com", "root-password1")

	company, err := f.client.CreateCompany(ctx, bearer, "Initech")
	require.NoError(t, err)
	require.NotEmpty(t, company.ID)

	got, err := f.client.GetCompany(ctx, bearer, company.ID)
	require.NoError(t, err)
	require.Equal(t, "Initech", got.Name)

	require.NoError(t, f.client.RenameCompany(ctx, bearer, company.ID, "Initrode"))

	companies, err := f.client.ListCompanies(ctx, bearer)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	require.Equal(t, "Initrode", companies[0].Name)

	// A user registered into the company shows up on its roster, without
	// any credential material.
	_, err = f.client.Register(ctx, apisdk.RegisterRequest{
		Email: "emp@example.com", Name: "Emp", Password: "hunter22!",
		CompanyID: company.ID,
	})
	require.NoError(t, err)

	users, err := f.client.ListCompanyUsers(ctx, bearer, company.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "emp@example.com", users[0].Email)
	require.False(t, users[0].Verified)

	require.NoError(t, f.client.DeleteCompany(ctx, bearer, company.ID))

	_, err = f.client.GetCompany(ctx, bearer, company.ID)
	require.ErrorIs(t, err, apisdk.ErrNotFound)
}

func TestRoleScopedAdmin(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	root := f.makeSuperuser(t, "root@example.com", "root-password1")

	readPerm, err := f.client.CreatePermission(ctx, root, "read", "Company")
	require.NoError(t, err)

	auditor, err := f.client.CreateRole(ctx, root, apisdk.CreateRoleRequest{
		Name:          "auditor",
		PermissionIDs: []string{readPerm.ID},
	})
	require.NoError(t, err)

	f.registerVerified(t, "aud@example.com", "Aud", "hunter22!")
	user, err := f.store.Users().GetUserByEmail(ctx, "aud@example.com")
	require.NoError(t, err)

	profile, err := f.client.PromoteAdmin(ctx, root, apisdk.PromoteAdminRequest{
		UserID:  user.ID,
		RoleIDs: []string{auditor.ID},
	})
	require.NoError(t, err)
	require.Equal(t, user.ID, profile.UserID)
	require.Equal(t, "Aud", profile.Name)

	pair, err := f.client.AdminLogin(ctx, "aud@example.com", "hunter22!")
	require.NoError(t, err)

	info, err := f.client.Userinfo(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, jwtx.KindAdmin, info.Kind)
	require.Equal(t, []string{"auditor"}, info.Roles)

	// The auditor can read companies but not manage them.
	_, err = f.client.ListCompanies(ctx, pair.AccessToken)
	require.NoError(t, err)

	_, err = f.client.CreateCompany(ctx, pair.AccessToken, "Initech")
	require.ErrorIs(t, err, apisdk.ErrAccessDenied)

	// Demotion cuts off the admin entrance entirely.
	require.NoError(t, f.client.DemoteAdmin(ctx, root, profile.ID))
	_, err = f.client.AdminLogin(ctx, "aud@example.com", "hunter22!")
	require.ErrorIs(t, err, apisdk.ErrInvalidCredentials)
}

func TestAPIKeyAccess(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	root := f.makeSuperuser(t, "root@example.com", "root-password1")

	company, err := f.client.CreateCompany(ctx, root, "Initech")
	require.NoError(t, err)

	created, err := f.client.CreateAPIKey(ctx, root, company.ID, apisdk.CreateAPIKeyRequest{
		Name:        "reporting",
		Permissions: []string{"read:Company"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.Key)

	keyClient := apisdk.NewClient(f.server.URL)
	keyClient.APIKey = created.Key

	companies, err := keyClient.ListCompanies(ctx, "")
	require.NoError(t, err)
	require.Len(t, companies, 1)

	// The key's grants are flat; anything beyond them is denied.
	_, err = keyClient.CreateCompany(ctx, "", "Globex")
	require.ErrorIs(t, err, apisdk.ErrAccessDenied)

	// Revocation takes effect on the next request.
	require.NoError(t, f.client.DeleteAPIKey(ctx, root, created.ID))
	_, err = keyClient.ListCompanies(ctx, "")
	require.ErrorIs(t, err, apisdk.ErrInvalidToken)

	// Garbage keys never authenticate.
	badClient := apisdk.NewClient(f.server.URL)
	badClient.APIKey = "not-a-real-key"
	_, err = badClient.ListCompanies(ctx, "")
	require.ErrorIs(t, err, apisdk.ErrInvalidToken)
}

func TestSystemEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	live, err := f.client.Livez(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := f.client.Readyz(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)

	jwks, err := f.client.JWKS(ctx)
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "e2e-key", jwks.Keys[0].Kid)
}

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vantagehq/vantage/internal/domain"
	"github.com/vantagehq/vantage/internal/service"
	"github.com/vantagehq/vantage/internal/store/drivers/sqlite"
	"github.com/vantagehq/vantage/pkg/apisdk"
)

func newGuardMiddlewareFixture(t *testing.T) *service.Guard {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	return &service.Guard{Store: st, SuperuserRole: service.DefaultSuperuserRole}
}

func TestRequirePermissions_NoPrincipalIsServerFault(t *testing.T) {
	guard := newGuardMiddlewareFixture(t)

	reached := false
	handler := RequirePermissions(guard, "read:Company")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
		}))

	// A guarded route invoked without any authentication middleware means
	// the chain is misassembled; that is the server's fault, not denial.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/companies", nil))

	require.False(t, reached)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body apisdk.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, apisdk.ErrorCodeAuthContextMissing, body.Error)
}

func TestRequirePermissions_GrantedContextPasses(t *testing.T) {
	guard := newGuardMiddlewareFixture(t)

	reached := false
	handler := RequirePermissions(guard, "read:Company")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
		}))

	req := httptest.NewRequest(http.MethodGet, "/v1/companies", nil)
	actx := domain.PermissionsContext([]string{"read:Company"})
	req = req.WithContext(contextWithAuthContext(req.Context(), actx))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.True(t, reached)
	require.Equal(t, http.StatusOK, rec.Code)

	// The same principal without the grant gets an ordinary denial.
	reached = false
	req = httptest.NewRequest(http.MethodGet, "/v1/companies", nil)
	req = req.WithContext(contextWithAuthContext(req.Context(), domain.PermissionsContext(nil)))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.False(t, reached)
	require.Equal(t, http.StatusForbidden, rec.Code)

	var body apisdk.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, apisdk.ErrorCodeAccessDenied, body.Error)
}

package service

import (
	"context"
	"log/slog"

	"github.com/vantagehq/vantage/internal/domain"
	"github.com/vantagehq/vantage/internal/obs"
	"github.com/vantagehq/vantage/internal/store"
	"github.com/vantagehq/vantage/pkg/slogx"
)

// DefaultSuperuserRole is the role name that bypasses permission checks
// unless the deployment overrides or disables it.
const DefaultSuperuserRole = "SUPERUSER"

// Guard decides whether a caller may perform an operation. Every check is
// fail-closed: a context that cannot prove its grants is denied.
type Guard struct {
	Store store.Store

	// SuperuserRole names the role that bypasses all checks. Empty
	// disables the bypass entirely.
	SuperuserRole string
}

// Authorize requires every permission in required, expressed as
// "action:subject" strings. Role contexts holding the superuser role pass
// without resolution.
func (g *Guard) Authorize(ctx context.Context, required []string, actx domain.AuthContext) error {
	l := slogx.FromContext(ctx)

	if len(required) == 0 {
		obs.RecordPermissionCheck("allowed")
		return nil
	}

	switch actx.Kind() {
	case domain.AuthContextPermissions:
		if hasAll(actx.Permissions(), required) {
			obs.RecordPermissionCheck("allowed")
			return nil
		}

	case domain.AuthContextRoles:
		roles := actx.Roles()
		if g.SuperuserRole != "" && contains(roles, g.SuperuserRole) {
			obs.RecordPermissionCheck("allowed")
			return nil
		}

		perms, err := g.Store.Roles().GetPermissionsForRoleNames(ctx, roles)
		if err != nil {
			// Resolution failure denies rather than guesses.
			l.Error("permission resolution failed", slog.Any("err", err))
			obs.RecordPermissionCheck("denied")
			return ErrAccessDenied
		}

		granted := make([]string, len(perms))
		for i, p := range perms {
			granted[i] = p.String()
		}
		if hasAll(granted, required) {
			obs.RecordPermissionCheck("allowed")
			return nil
		}

	default:
		// A zero context means no authentication ran at all.
		l.Error("authorization check reached with no auth context")
		obs.RecordPermissionCheck("denied")
		return ErrNoAuthContext
	}

	obs.RecordPermissionCheck("denied")
	return ErrAccessDenied
}

func hasAll(granted, required []string) bool {
	set := make(map[string]struct{}, len(granted))
	for _, g := range granted {
		set[g] = struct{}{}
	}
	for _, r := range required {
		if _, ok := set[r]; !ok {
			return false
		}
	}
	return true
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

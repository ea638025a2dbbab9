package domain

// AuthContextKind discriminates how an AuthContext expresses its grants.
type AuthContextKind int

const (
	// AuthContextUnknown is the zero value. Permission checks against it
	// always fail.
	AuthContextUnknown AuthContextKind = iota

	// AuthContextPermissions carries a flat list of "action:subject"
	// grants, used by API keys.
	AuthContextPermissions

	// AuthContextRoles carries role names that resolve to permissions at
	// check time, used by administrator access tokens.
	AuthContextRoles
)

// AuthContext describes what a caller is allowed to do, in exactly one of
// two shapes. Construct with PermissionsContext or RolesContext; the zero
// value grants nothing.
type AuthContext struct {
	kind        AuthContextKind
	permissions []string
	roles       []string
}

// PermissionsContext builds an AuthContext from a flat permission list.
func PermissionsContext(permissions []string) AuthContext {
	return AuthContext{kind: AuthContextPermissions, permissions: permissions}
}

// RolesContext builds an AuthContext from role names.
func RolesContext(roles []string) AuthContext {
	return AuthContext{kind: AuthContextRoles, roles: roles}
}

// Kind reports which shape this context carries.
func (a AuthContext) Kind() AuthContextKind { return a.kind }

// Permissions returns the flat grant list. Only meaningful when Kind is
// AuthContextPermissions.
func (a AuthContext) Permissions() []string { return a.permissions }

// Roles returns the role names. Only meaningful when Kind is
// AuthContextRoles.
func (a AuthContext) Roles() []string { return a.roles }

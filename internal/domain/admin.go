package domain

import "time"

// AdminProfile marks a user as an administrator and carries the roles that
// drive permission checks. A user without a profile can never authenticate
// through the admin login path.
type AdminProfile struct {
	ID        string
	UserID    string
	Name      string   // Display name, defaults to the user's name at promotion
	CompanyID string   // Optional tenant association, empty means unscoped
	RoleIDs   []string // Populated from the admin_profile_roles join table
	CreatedAt time.Time
	UpdatedAt time.Time
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

type Role struct {
	ID            string
	Name          string
	PermissionIDs []string // Populated from the role_permissions join table
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Permission is a single grant expressed as an action over a subject,
// e.g. action "read" on subject "Company".
type Permission struct {
	ID        string
	Action    string
	Subject   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// String renders the permission in "action:subject" form, the format used
// in permission checks and API key grants.
func (p Permission) String() string {
	return fmt.Sprintf("%s:%s", p.Action, p.Subject)
}

// ParsePermission splits an "action:subject" string into its parts.
func ParsePermission(s string) (action, subject string, ok bool) {
	action, subject, ok = strings.Cut(s, ":")
	if !ok || action == "" || subject == "" {
		return "", "", false
	}
	return action, subject, true
}

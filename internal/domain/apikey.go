package domain

import "time"

// APIKey is a long-lived machine credential scoped to a company. The raw
// key is shown once at creation; only its fingerprint is stored.
type APIKey struct {
	ID          string
	CompanyID   string
	Name        string
	TokenHash   string   // hex SHA-256 fingerprint of the raw key
	Permissions []string // flat "action:subject" grants
	LastUsedAt  *time.Time
	RevokedAt   *time.Time // Set on revocation; the row is kept for audit
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

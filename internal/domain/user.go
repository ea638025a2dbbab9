package domain

import "time"

type User struct {
	ID           string
	CompanyID    string
	Email        string
	Name         string
	PasswordHash string // bcrypt encoded
	Verified     bool

	// Single refresh slot. A new login overwrites the hash, invalidating
	// any previously issued refresh token for this user.
	RefreshTokenHash string // bcrypt over the token fingerprint, empty when logged out

	// One-time token fingerprints (hex SHA-256). Empty when no token is
	// outstanding for the flow.
	VerifyTokenHash     string
	ResetTokenHash      string
	ResetTokenExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

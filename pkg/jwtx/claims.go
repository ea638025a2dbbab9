package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants. These provide sensible security defaults but
// can be overridden per-deployment through configuration.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	// Short-lived for security - typical range is 15m to 1h.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	// Longer-lived for user convenience - typical range is 7d to 30d.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Principal kinds carried in the access token's "kind" claim. The kind
// decides which authorization shape downstream consumers should expect:
// admin tokens carry role names, API-key principals carry flat permissions.
const (
	KindUser  = "user"
	KindAdmin = "admin"
)

// Claims are access-token claims. Additive changes only, so resource
// servers that decoded an older shape keep working.
type Claims struct {
	jwt.RegisteredClaims

	// Email of the authenticated principal.
	Email string `json:"email,omitempty"`

	// Name is the display name for the principal.
	Name string `json:"name,omitempty"`

	// Kind tags the account kind: "user" or "admin".
	Kind string `json:"kind,omitempty"`

	// CompanyID scopes ordinary users to their tenant. Admin tokens are
	// deliberately company-unscoped; scoping happens via their profile.
	CompanyID string `json:"company_id,omitempty"`

	// ProfileID is the administrator profile id, admin tokens only.
	ProfileID string `json:"profile_id,omitempty"`

	// Roles are the resolved role names, admin tokens only.
	Roles []string `json:"roles,omitempty"`

	// Permissions is a flat "action:subject" list. Access tokens never
	// carry it today; API-key principals synthesize it at the middleware.
	Permissions []string `json:"permissions,omitempty"`
}

// RefreshClaims are the claims of the symmetrically signed refresh token.
// The nonce is the issuance time in unix milliseconds, so two refresh
// tokens minted back-to-back for the same principal never collide.
type RefreshClaims struct {
	jwt.RegisteredClaims

	Nonce int64 `json:"nonce"`
}

// NewUserClaims builds access claims for an ordinary user.
func NewUserClaims(
	subject, email, name, companyID string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	c := newBaseClaims(subject, ttl, issuer, now)
	c.Email = email
	c.Name = name
	c.Kind = KindUser
	c.CompanyID = companyID
	return c
}

// NewAdminClaims builds access claims for an administrator, carrying the
// profile id and resolved role names on top of the user shape.
func NewAdminClaims(
	subject, email, name, profileID string,
	roles []string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	c := newBaseClaims(subject, ttl, issuer, now)
	c.Email = email
	c.Name = name
	c.Kind = KindAdmin
	c.ProfileID = profileID
	c.Roles = roles
	return c
}

// NewRefreshClaims builds refresh-token claims for a principal.
func NewRefreshClaims(subject string, ttl time.Duration, issuer string, now time.Time) RefreshClaims {
	return RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Nonce: now.UnixMilli(),
	}
}

func newBaseClaims(subject string, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}

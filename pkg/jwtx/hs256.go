package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinRefreshSecretBytes is the minimum length we accept for the refresh
// signing secret. HS256 keys shorter than the hash output weaken the MAC.
const MinRefreshSecretBytes = 32

// HS256Signer signs refresh tokens with a symmetric server-side secret.
//
// Access and refresh tokens deliberately use different algorithms and key
// material: the access public key may be handed to any resource server,
// while the refresh secret never leaves this service. Keep them as two
// independent objects, not one parameterized signer.
type HS256Signer struct {
	secret []byte
}

// NewHS256Signer builds a refresh-token signer from the shared secret.
func NewHS256Signer(secret []byte) (*HS256Signer, error) {
	if len(secret) < MinRefreshSecretBytes {
		return nil, fmt.Errorf("jwtx: refresh secret must be at least %d bytes", MinRefreshSecretBytes)
	}
	return &HS256Signer{secret: secret}, nil
}

// Sign turns refresh claims into a signed JWT string.
func (s *HS256Signer) Sign(claims RefreshClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// HS256Verifier validates refresh tokens signed with the shared secret.
type HS256Verifier struct {
	secret []byte
	issuer string
}

// NewHS256Verifier builds a refresh-token verifier from the shared secret.
func NewHS256Verifier(secret []byte, issuer string) (*HS256Verifier, error) {
	if len(secret) < MinRefreshSecretBytes {
		return nil, fmt.Errorf("jwtx: refresh secret must be at least %d bytes", MinRefreshSecretBytes)
	}
	return &HS256Verifier{secret: secret, issuer: issuer}, nil
}

// Verify validates the refresh JWT string and returns its parsed claims.
// Expiry and not-before are enforced here, so a stale refresh token never
// reaches the rotation logic.
func (v *HS256Verifier) Verify(tokenStr string) (*RefreshClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &RefreshClaims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("jwtx: parse or verify: %w", err)
	}

	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid {
		return nil, errors.New("jwtx: invalid token claims")
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, ErrIssuer
	}
	if claims.ExpiresAt != nil && time.Now().UTC().After(claims.ExpiresAt.Time) {
		return nil, ErrExpired
	}

	return claims, nil
}

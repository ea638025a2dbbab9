package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Token size constants (in bytes before encoding).
const (
	// TokenSize256 provides 256 bits of entropy (64 chars hex).
	TokenSize256 = 32
	// TokenSize512 provides 512 bits of entropy (128 chars hex).
	TokenSize512 = 64
)

// GenerateToken creates a cryptographically secure random token of the
// specified byte length, hex-encoded. This is the wire-visible form of
// one-time tokens (email verification, password reset) and raw API keys.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// MustGenerateToken is like GenerateToken but panics on error.
// Use this only during initialization or in contexts where failure is unrecoverable.
func MustGenerateToken(size int) string {
	token, err := GenerateToken(size)
	if err != nil {
		panic(fmt.Sprintf("cryptox: failed to generate token: %v", err))
	}
	return token
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token,
// hex-encoded. Tokens are stored and looked up by fingerprint so the raw
// value never lands in the database. Deterministic hashing is what makes the
// lookup possible; bcrypt must never be used for this purpose.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// HashRefreshToken hashes a raw refresh token for at-rest storage. The token
// is fingerprinted first because bcrypt only consumes the first 72 bytes of
// its input and a signed refresh JWT is much longer than that; hashing the
// fixed-size fingerprint keeps the whole token significant.
func HashRefreshToken(raw string) (string, error) {
	return HashPassword(FingerprintToken(raw))
}

// VerifyRefreshToken compares a presented raw refresh token against the
// stored at-rest hash. Returns ErrPasswordMismatch when they do not match.
func VerifyRefreshToken(raw, storedHash string) error {
	return VerifyPassword(FingerprintToken(raw), storedHash)
}

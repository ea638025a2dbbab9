package cryptox

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.Len(t, token, TokenSize256*2, "hex doubles the byte length")

	_, err = hex.DecodeString(token)
	require.NoError(t, err, "token should be valid hex")
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	_, err := GenerateToken(0)
	require.Error(t, err)

	_, err = GenerateToken(-1)
	require.Error(t, err)
}

func TestGenerateToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		token, err := GenerateToken(TokenSize256)
		require.NoError(t, err)
		require.False(t, seen[token], "tokens must not repeat")
		seen[token] = true
	}
}

func TestFingerprintToken(t *testing.T) {
	fp := FingerprintToken("some-token")
	require.Len(t, fp, 64, "sha256 hex is 64 chars")
	require.Equal(t, fp, FingerprintToken("some-token"), "fingerprint is deterministic")
	require.NotEqual(t, fp, FingerprintToken("some-other-token"))
}

func TestHashRefreshToken_RoundTrip(t *testing.T) {
	// Signed refresh JWTs are far longer than bcrypt's 72 byte input limit.
	// The fingerprint step keeps every byte of the token significant.
	raw := strings.Repeat("eyJhbGciOiJIUzI1NiJ9.", 20)

	hash, err := HashRefreshToken(raw)
	require.NoError(t, err)
	require.NotContains(t, hash, raw)

	require.NoError(t, VerifyRefreshToken(raw, hash))
	require.ErrorIs(t, VerifyRefreshToken(raw+"x", hash), ErrPasswordMismatch)
}

func TestHashRefreshToken_TailBytesSignificant(t *testing.T) {
	prefix := strings.Repeat("a", 72)

	hash, err := HashRefreshToken(prefix + "one")
	require.NoError(t, err)

	err = VerifyRefreshToken(prefix+"two", hash)
	require.ErrorIs(t, err, ErrPasswordMismatch,
		"tokens differing only after byte 72 must not collide")
}

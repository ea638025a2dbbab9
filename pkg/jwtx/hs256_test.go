package jwtx

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testRefreshSecret = bytes.Repeat([]byte("s"), MinRefreshSecretBytes)

func TestHS256_ShortSecretRejected(t *testing.T) {
	_, err := NewHS256Signer([]byte("too-short"))
	require.Error(t, err)

	_, err = NewHS256Verifier([]byte("too-short"), testIssuer)
	require.Error(t, err)
}

func TestHS256_SignVerifyRoundTrip(t *testing.T) {
	signer, err := NewHS256Signer(testRefreshSecret)
	require.NoError(t, err)
	verifier, err := NewHS256Verifier(testRefreshSecret, testIssuer)
	require.NoError(t, err)

	now := time.Now()
	claims := NewRefreshClaims("user-9", time.Hour, testIssuer, now)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	parsed, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-9", parsed.Subject)
	require.Equal(t, now.UnixMilli(), parsed.Nonce)
}

func TestHS256_NonceDistinguishesIssuances(t *testing.T) {
	a := NewRefreshClaims("user-9", time.Hour, testIssuer, time.UnixMilli(1000))
	b := NewRefreshClaims("user-9", time.Hour, testIssuer, time.UnixMilli(1005))
	require.NotEqual(t, a.Nonce, b.Nonce)
}

func TestHS256_ForeignSecretFails(t *testing.T) {
	signer, err := NewHS256Signer(testRefreshSecret)
	require.NoError(t, err)
	verifier, err := NewHS256Verifier(bytes.Repeat([]byte("x"), MinRefreshSecretBytes), testIssuer)
	require.NoError(t, err)

	token, err := signer.Sign(NewRefreshClaims("user-9", time.Hour, testIssuer, time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestHS256_ExpiredFails(t *testing.T) {
	signer, err := NewHS256Signer(testRefreshSecret)
	require.NoError(t, err)
	verifier, err := NewHS256Verifier(testRefreshSecret, testIssuer)
	require.NoError(t, err)

	token, err := signer.Sign(NewRefreshClaims("user-9", time.Minute, testIssuer, time.Now().Add(-time.Hour)))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestHS256_IssuerMismatchFails(t *testing.T) {
	signer, err := NewHS256Signer(testRefreshSecret)
	require.NoError(t, err)
	verifier, err := NewHS256Verifier(testRefreshSecret, testIssuer)
	require.NoError(t, err)

	token, err := signer.Sign(NewRefreshClaims("user-9", time.Hour, "someone-else", time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestHS256_RejectsAsymmetricTokens(t *testing.T) {
	edSigner, _ := newEdDSAFixture(t, "key-1")
	verifier, err := NewHS256Verifier(testRefreshSecret, testIssuer)
	require.NoError(t, err)

	claims := NewUserClaims("user-9", "a@example.com", "A", "",
		time.Hour, testIssuer, time.Now())
	token, err := edSigner.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err, "alg confusion must not be possible")
}

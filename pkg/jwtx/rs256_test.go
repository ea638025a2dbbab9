package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vantagehq/vantage/pkg/cryptox"
)

func newRS256Fixture(t *testing.T, kid string) (Signer, Verifier) {
	t.Helper()

	// 2048 bits keeps the test fast; production uses 4096.
	pemKey, err := cryptox.GenerateRSAKey(2048)
	require.NoError(t, err)

	signer, err := NewSignerRS256(kid, pemKey)
	require.NoError(t, err)

	keys := NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	return signer, NewCommonRS256(keys, testIssuer)
}

func TestRS256_SignVerifyRoundTrip(t *testing.T) {
	signer, verifier := newRS256Fixture(t, "rsa-1")

	require.Equal(t, "RS256", signer.Alg())
	require.Equal(t, "rsa-1", signer.KID())

	claims := NewUserClaims("user-55", "kim@example.com", "Kim", "company-2",
		time.Minute, testIssuer, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	parsed, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-55", parsed.Subject)
	require.Equal(t, "company-2", parsed.CompanyID)
}

func TestRS256_TamperedTokenFails(t *testing.T) {
	signer, verifier := newRS256Fixture(t, "rsa-1")

	claims := NewUserClaims("user-55", "kim@example.com", "Kim", "",
		time.Minute, testIssuer, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[2] = parts[2][:len(parts[2])-2] + "xx"
	_, err = verifier.Verify(strings.Join(parts, "."))
	require.Error(t, err)
}

func TestRS256_RejectsEdDSATokens(t *testing.T) {
	edSigner, _ := newEdDSAFixture(t, "mixed-1")
	_, verifier := newRS256Fixture(t, "mixed-1")

	claims := NewUserClaims("user-55", "kim@example.com", "Kim", "",
		time.Minute, testIssuer, time.Now())
	token, err := edSigner.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err, "verifier must reject tokens signed with another algorithm")
}

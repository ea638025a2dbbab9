package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vantagehq/vantage/pkg/cryptox"
)

const testIssuer = "jwtx-test"

func newEdDSAFixture(t *testing.T, kid string) (Signer, Verifier) {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)

	keys := NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	return signer, NewCommonEdDSA(keys, testIssuer)
}

func TestEdDSA_SignVerifyRoundTrip(t *testing.T) {
	signer, verifier := newEdDSAFixture(t, "key-1")

	claims := NewUserClaims("user-123", "sam@example.com", "Sam", "company-9",
		time.Minute, testIssuer, time.Now())

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)

	parsed, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", parsed.Subject)
	require.Equal(t, "sam@example.com", parsed.Email)
	require.Equal(t, KindUser, parsed.Kind)
	require.Equal(t, "company-9", parsed.CompanyID)
	require.Empty(t, parsed.Roles)
}

func TestEdDSA_AdminClaims(t *testing.T) {
	signer, verifier := newEdDSAFixture(t, "key-1")

	claims := NewAdminClaims("user-7", "ops@example.com", "Ops", "profile-1",
		[]string{"ops", "billing"}, time.Minute, testIssuer, time.Now())

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	parsed, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, KindAdmin, parsed.Kind)
	require.Equal(t, "profile-1", parsed.ProfileID)
	require.Equal(t, []string{"ops", "billing"}, parsed.Roles)
	require.Empty(t, parsed.CompanyID, "admin tokens are company-unscoped")
}

func TestEdDSA_TamperedTokenFails(t *testing.T) {
	signer, verifier := newEdDSAFixture(t, "key-1")

	claims := NewUserClaims("user-123", "sam@example.com", "Sam", "",
		time.Minute, testIssuer, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[1] = parts[1][:len(parts[1])-2] + "xx"
	_, err = verifier.Verify(strings.Join(parts, "."))
	require.Error(t, err)
}

func TestEdDSA_ExpiredTokenFails(t *testing.T) {
	signer, verifier := newEdDSAFixture(t, "key-1")

	claims := NewUserClaims("user-123", "sam@example.com", "Sam", "",
		time.Minute, testIssuer, time.Now().Add(-time.Hour))
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestEdDSA_IssuerMismatchFails(t *testing.T) {
	signer, verifier := newEdDSAFixture(t, "key-1")

	claims := NewUserClaims("user-123", "sam@example.com", "Sam", "",
		time.Minute, "someone-else", time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestEdDSA_ForeignKeySameKIDFails(t *testing.T) {
	signer, _ := newEdDSAFixture(t, "key-1")
	_, verifier := newEdDSAFixture(t, "key-1")

	claims := NewUserClaims("user-123", "sam@example.com", "Sam", "",
		time.Minute, testIssuer, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestEdDSA_UnknownKIDFails(t *testing.T) {
	signer, _ := newEdDSAFixture(t, "key-a")
	_, verifier := newEdDSAFixture(t, "key-b")

	claims := NewUserClaims("user-123", "sam@example.com", "Sam", "",
		time.Minute, testIssuer, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

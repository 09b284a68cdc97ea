package token

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	signer, err := NewSigner("test-secret")
	require.NoError(t, err)
	return signer
}

func TestNewSigner_EmptySecret(t *testing.T) {
	_, err := NewSigner("")
	assert.Error(t, err)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	signer := newTestSigner(t)

	tok, err := signer.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, err := signer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestIssue_EmptyUserID(t *testing.T) {
	signer := newTestSigner(t)

	_, err := signer.Issue("")
	assert.Error(t, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	signer := newTestSigner(t)
	other, err := NewSigner("other-secret")
	require.NoError(t, err)

	tok, err := other.Issue("user-123")
	require.NoError(t, err)

	_, err = signer.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_TamperedPayload(t *testing.T) {
	signer := newTestSigner(t)

	tok, err := signer.Issue("user-123")
	require.NoError(t, err)

	// Swap in a different user id while keeping the original signature.
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"user_id":"user-456"}`))
	tampered := parts[0] + "." + forged + "." + parts[2]

	_, err = signer.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	signer := newTestSigner(t)

	for _, input := range []string{
		"",
		"garbage",
		"a.b",
		"not even close to a token",
		"....",
	} {
		_, err := signer.Verify(input)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", input)
	}
}

func TestVerify_NoneAlgorithmRejected(t *testing.T) {
	signer := newTestSigner(t)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims{UserID: "user-123"})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = signer.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_MissingUserIDClaim(t *testing.T) {
	signer := newTestSigner(t)

	// A properly signed token that carries no user id claim
	empty := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "whatever"})
	tok, err := empty.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = signer.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_ManyTokensPerUser(t *testing.T) {
	signer := newTestSigner(t)

	first, err := signer.Issue("user-123")
	require.NoError(t, err)
	second, err := signer.Issue("user-123")
	require.NoError(t, err)

	// No single-session invariant: both tokens resolve to the same user.
	for _, tok := range []string{first, second} {
		userID, err := signer.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, "user-123", userID)
	}
}

package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-test-secret-test-secret"

func testIdentity() Identity {
	return Identity{UserID: 42, Email: "a@x.com", Role: "USER"}
}

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour, 24*time.Hour)

	access, exp, err := issuer.IssueAccessToken(testIdentity())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := issuer.Verify(access)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.NotEmpty(t, claims.ID)
}

func TestTokensIssuedTogetherDiffer(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour, time.Hour)
	a, _, err := issuer.IssueAccessToken(testIdentity())
	require.NoError(t, err)
	b, _, err := issuer.IssueAccessToken(testIdentity())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyExpired(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Minute, time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := issuer.IssueAccessToken(testIdentity())
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyInvalidSignature(t *testing.T) {
	other := NewTokenIssuer("another-secret-another-secret-xx", time.Hour, time.Hour)
	token, _, err := other.IssueAccessToken(testIdentity())
	require.NoError(t, err)

	issuer := NewTokenIssuer(testSecret, time.Hour, time.Hour)
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalidSignature)
}

func TestVerifyMalformed(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour, time.Hour)
	for _, raw := range []string{"", "abc", "a.b.c"} {
		_, err := issuer.Verify(raw)
		assert.ErrorIs(t, err, ErrTokenMalformed, raw)
	}
}

func TestVerifyRefresh(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour, 24*time.Hour)

	refresh, _, err := issuer.IssueRefreshToken(testIdentity())
	require.NoError(t, err)
	claims, err := issuer.VerifyRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.Type)

	access, _, err := issuer.IssueAccessToken(testIdentity())
	require.NoError(t, err)
	_, err = issuer.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrTokenWrongType)
}

func TestHashToken(t *testing.T) {
	assert.Len(t, HashToken("x"), 64)
	assert.Equal(t, HashToken("x"), HashToken("x"))
	assert.NotEqual(t, HashToken("x"), HashToken("y"))
}

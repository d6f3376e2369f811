package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	password := "Sup3r-secret"

	digest, err := h.Hash(password)
	require.NoError(t, err)
	assert.NotEqual(t, password, digest)

	ok, err := h.Verify(password, digest)
	require.NoError(t, err)
	assert.True(t, ok)

	for i := range password {
		mutated := []byte(password)
		mutated[i] ^= 0x01
		ok, err := h.Verify(string(mutated), digest)
		require.NoError(t, err)
		assert.False(t, ok, "mutation at %d verified", i)
	}
}

func TestHashUsesFreshSalt(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyMalformedDigest(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	ok, err := h.Verify("whatever", "not-a-bcrypt-hash")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrMalformedHash)
}

func TestNewHasherClampsCost(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewHasher(0).Cost())
	assert.Equal(t, DefaultBcryptCost, NewHasher(99).Cost())
	assert.Equal(t, 10, NewHasher(10).Cost())
}

func TestCompareDummy(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	assert.NotPanics(t, func() {
		h.CompareDummy("anything")
		h.CompareDummy("anything else")
	})
}

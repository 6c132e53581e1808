package service

import (
	"strings"
	"testing"

	"github.com/IbnuAlii/GuulSideApp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasherCost(bcrypt.MinCost)

	a, err := h.Hash("secret1")
	require.NoError(t, err)
	b, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "each hash uses a fresh salt")
	assert.NotContains(t, a, "secret1")

	ok, err := h.Verify("secret1", a)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("secret2", a)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasherRejectsLongPasswords(t *testing.T) {
	h := NewPasswordHasherCost(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPasswordHasherMalformedDigest(t *testing.T) {
	h := NewPasswordHasherCost(bcrypt.MinCost)

	ok, err := h.Verify("secret1", "not-a-bcrypt-hash")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestDefaultCost(t *testing.T) {
	assert.Equal(t, 10, NewPasswordHasher().cost)
}

package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	for _, pw := range []string{"secret1", "", "contraseña-ñ", strings.Repeat("x", 72)} {
		hashed, err := h.Hash(pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, hashed)

		ok, err := h.Verify(pw, hashed)
		require.NoError(t, err)
		assert.True(t, ok, "password %q should verify", pw)
	}
}

func TestPasswordHasher_Salted(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)
	first, err := h.Hash("secret1")
	require.NoError(t, err)
	second, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPasswordHasher_WrongPassword(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)
	hashed, err := h.Hash("secret1")
	require.NoError(t, err)

	ok, err := h.Verify("secret2", hashed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	t.Parallel()

	ok, err := NewPasswordHasher(bcrypt.MinCost).Verify("secret1", "not-a-bcrypt-hash")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrMalformedHash)
}

func TestPasswordHasher_LongPasswordTruncated(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)
	long := strings.Repeat("x", 80)

	hashed, err := h.Hash(long)
	require.NoError(t, err)

	ok, err := h.Verify(long, hashed)
	require.NoError(t, err)
	assert.True(t, ok)

	// bytes past 72 do not take part in the comparison
	ok, err = h.Verify(strings.Repeat("x", 72)+"different", hashed)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(strings.Repeat("x", 71), hashed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewPasswordHasher_DefaultCost(t *testing.T) {
	t.Parallel()

	hashed, err := NewPasswordHasher(0).Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

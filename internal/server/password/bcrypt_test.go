package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_RoundTrip(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	for _, pw := range []string{"secret1", "pässwörd", " spaced out ", strings.Repeat("x", MaxLength)} {
		hash, err := h.Hash(pw)
		require.NoError(t, err)
		assert.True(t, h.Verify(pw, hash), "password %q must verify", pw)
		assert.False(t, h.Verify(pw+"!", hash), "wrong password must not verify")
	}
}

func TestBcrypt_SaltedAndSelfDescribing(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	a, err := h.Hash("secret1")
	require.NoError(t, err)
	b, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "each hash carries its own salt")

	cost, err := Cost(a)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	// A verifier with another configured cost still reads the old hash.
	assert.True(t, NewBcrypt(12).Verify("secret1", a))
}

func TestBcrypt_DefaultCost(t *testing.T) {
	assert.Equal(t, DefaultCost, NewBcrypt(0).cost)
	assert.Equal(t, DefaultCost, NewBcrypt(99).cost)
	assert.Equal(t, 11, NewBcrypt(11).cost)
}

func TestBcrypt_MalformedHash(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)
	assert.False(t, h.Verify("secret1", ""))
	assert.False(t, h.Verify("secret1", "not-a-hash"))
}

func TestBcrypt_TooLong(t *testing.T) {
	_, err := NewBcrypt(bcrypt.MinCost).Hash(strings.Repeat("x", MaxLength+1))
	assert.ErrorIs(t, err, ErrTooLong)
}

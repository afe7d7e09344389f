package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newHasher(t *testing.T) *PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestHashAndVerify(t *testing.T) {
	h := newHasher(t)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.True(t, h.Verify(hash, "correct horse"))
	assert.False(t, h.Verify(hash, "wrong horse"))
}

func TestHash_IsSalted(t *testing.T) {
	h := newHasher(t)

	a, err := h.Hash("password1")
	require.NoError(t, err)
	b, err := h.Hash("password1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHash_TooLong(t *testing.T) {
	h := newHasher(t)

	_, err := h.Hash(strings.Repeat("x", MaxPasswordBytes+1))
	require.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = h.Hash(strings.Repeat("x", MaxPasswordBytes))
	require.NoError(t, err)
}

func TestVerify_EmptyHashNeverMatches(t *testing.T) {
	h := newHasher(t)
	assert.False(t, h.Verify("", "corechat-dummy-password"))
	assert.False(t, h.Verify("", ""))
}

func TestNewPasswordHasher_CostOutOfRange(t *testing.T) {
	h, err := NewPasswordHasher(100)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)

	cost, err := bcrypt.Cost(h.dummy)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestTokenDigest(t *testing.T) {
	d := TokenDigest("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", d)
	assert.NotEqual(t, d, TokenDigest("abd"))
}

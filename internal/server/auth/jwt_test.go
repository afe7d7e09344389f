package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/corechat/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	now := time.Now()

	tok, err := GenerateToken(42, "alice", secret, now, now.Add(time.Hour))
	require.NoError(t, err)

	claims, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, now.Add(time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestGenerateToken_DistinctPerCall(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	now := time.Now()
	a, err := GenerateToken(1, "u", secret, now, now.Add(time.Hour))
	require.NoError(t, err)
	b, err := GenerateToken(1, "u", secret, now, now.Add(time.Hour))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	now := time.Now()

	tok, err := GenerateToken(1, "u1", secret, now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)

	_, err = ParseToken(tok, secret)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok, err := GenerateToken(2, "u2", []byte("right-secret"), now, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("wrong-secret"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.jwt", []byte("k"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           1,
	})
	s, err := tok.SignedString(secret)
	require.NoError(t, err)

	_, err = ParseToken(s, secret)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_RequiresExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1})
	s, err := tok.SignedString(secret)
	require.NoError(t, err)

	_, err = ParseToken(s, secret)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

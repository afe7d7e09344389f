package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/corechat/internal/common"
	"github.com/dmitrijs2005/corechat/internal/server/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRepository(client), mr
}

func TestRedis_CreateFindDelete(t *testing.T) {
	r, mr := newRedisRepo(t)
	ctx := context.Background()

	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, r.Create(ctx, &models.Session{UserID: 9, Username: "carol", TokenDigest: "abc", ExpiresAt: exp}))

	assert.True(t, mr.Exists("session:abc"))
	ttl := mr.TTL("session:abc")
	assert.True(t, ttl > 59*time.Minute && ttl <= time.Hour, "ttl %s", ttl)

	got, err := r.Find(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.UserID)
	assert.Equal(t, "carol", got.Username)
	assert.Equal(t, "abc", got.TokenDigest)
	assert.True(t, exp.Equal(got.ExpiresAt))

	require.NoError(t, r.Delete(ctx, "abc"))
	require.NoError(t, r.Delete(ctx, "abc"))
	_, err = r.Find(ctx, "abc")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRedis_ExpiresWithTTL(t *testing.T) {
	r, mr := newRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &models.Session{UserID: 1, TokenDigest: "t", ExpiresAt: time.Now().Add(time.Minute)}))
	mr.FastForward(2 * time.Minute)

	_, err := r.Find(ctx, "t")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRedis_AlreadyExpiredIsNotStored(t *testing.T) {
	r, mr := newRedisRepo(t)

	require.NoError(t, r.Create(context.Background(), &models.Session{UserID: 1, TokenDigest: "old", ExpiresAt: time.Now().Add(-time.Second)}))
	assert.False(t, mr.Exists("session:old"))
}

func TestRedis_ConnectionError(t *testing.T) {
	r, mr := newRedisRepo(t)
	mr.Close()

	_, err := r.Find(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/corechat/internal/common"
	"github.com/dmitrijs2005/corechat/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

type redisSession struct {
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RedisRepository keeps session records as JSON values whose TTL matches the
// session's remaining validity, so Redis expires them on its own.
type RedisRepository struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedisRepository(client redis.UniversalClient) *RedisRepository {
	return &RedisRepository{client: client, now: time.Now}
}

func (r *RedisRepository) Create(ctx context.Context, session *models.Session) error {
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		// already expired: storing it would only produce an absent lookup later
		return nil
	}

	b, err := json.Marshal(redisSession{UserID: session.UserID, Username: session.Username, ExpiresAt: session.ExpiresAt})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := r.client.Set(ctx, redisKeyPrefix+session.TokenDigest, b, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) Find(ctx context.Context, digest string) (*models.Session, error) {
	b, err := r.client.Get(ctx, redisKeyPrefix+digest).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	var rs redisSession
	if err := json.Unmarshal(b, &rs); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &models.Session{UserID: rs.UserID, Username: rs.Username, TokenDigest: digest, ExpiresAt: rs.ExpiresAt}, nil
}

func (r *RedisRepository) Delete(ctx context.Context, digest string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+digest).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

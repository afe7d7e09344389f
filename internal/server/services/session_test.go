package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/corechat/internal/common"
	"github.com/dmitrijs2005/corechat/internal/cryptox"
	"github.com/dmitrijs2005/corechat/internal/logging"
	"github.com/dmitrijs2005/corechat/internal/server/auth"
	"github.com/dmitrijs2005/corechat/internal/server/models"
	"github.com/dmitrijs2005/corechat/internal/server/repositories/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newSessionService(t *testing.T, repo sessions.Repository) *SessionService {
	t.Helper()
	return NewSessionService(repo, testConfig(), logging.NewZapLoggerFrom(zaptest.NewLogger(t)))
}

func TestSession_CreateAndVerify(t *testing.T) {
	repo := sessions.NewMemoryRepository()
	s := newSessionService(t, repo)
	ctx := context.Background()

	token, expiresAt, err := s.CreateSession(ctx, 7, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, time.Minute)

	rec, err := repo.Find(ctx, cryptox.TokenDigest(token))
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.UserID)

	id, err := s.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, &models.Identity{UserID: 7, Username: "alice"}, id)

	// repeatable
	_, err = s.Verify(ctx, token)
	require.NoError(t, err)
}

func TestSession_TokensAreDistinct(t *testing.T) {
	s := newSessionService(t, sessions.NewMemoryRepository())
	ctx := context.Background()

	a, _, err := s.CreateSession(ctx, 1, "alice")
	require.NoError(t, err)
	b, _, err := s.CreateSession(ctx, 1, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSession_RevokeIsIdempotent(t *testing.T) {
	s := newSessionService(t, sessions.NewMemoryRepository())
	ctx := context.Background()

	token, _, err := s.CreateSession(ctx, 1, "alice")
	require.NoError(t, err)

	require.NoError(t, s.Revoke(ctx, token))
	_, err = s.Verify(ctx, token)
	require.ErrorIs(t, err, common.ErrUnauthenticated)

	require.NoError(t, s.Revoke(ctx, token))
	require.NoError(t, s.Revoke(ctx, ""))
	require.NoError(t, s.Revoke(ctx, "garbage"))
}

func TestSession_ExpiredRecordIsAbsent(t *testing.T) {
	repo := sessions.NewMemoryRepository()
	s := newSessionService(t, repo)
	ctx := context.Background()

	token, expiresAt, err := s.CreateSession(ctx, 1, "alice")
	require.NoError(t, err)

	s.now = func() time.Time { return expiresAt }

	_, err = s.Verify(ctx, token)
	require.ErrorIs(t, err, common.ErrUnauthenticated)

	// dropped lazily
	_, err = repo.Find(ctx, cryptox.TokenDigest(token))
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSession_VerifyFailsClosed(t *testing.T) {
	repo := sessions.NewMemoryRepository()
	s := newSessionService(t, repo)
	ctx := context.Background()

	valid, _, err := s.CreateSession(ctx, 1, "alice")
	require.NoError(t, err)

	now := time.Now()
	forged, err := auth.GenerateToken(1, "alice", []byte("other-secret"), now, now.Add(time.Hour))
	require.NoError(t, err)

	// well signed, but never stored
	unknown, err := auth.GenerateToken(1, "alice", []byte("test-secret"), now, now.Add(time.Hour))
	require.NoError(t, err)

	// signed token past its exp claim
	stale, err := auth.GenerateToken(1, "alice", []byte("test-secret"), now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &models.Session{UserID: 1, Username: "alice", TokenDigest: cryptox.TokenDigest(stale), ExpiresAt: now.Add(time.Hour)}))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"tampered", valid + "x"},
		{"wrong secret", forged},
		{"no record", unknown},
		{"expired claim", stale},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := s.Verify(ctx, tc.token)
			assert.Nil(t, id)
			require.ErrorIs(t, err, common.ErrUnauthenticated)
		})
	}
}

func TestSession_VerifyRejectsMismatchedOwner(t *testing.T) {
	repo := sessions.NewMemoryRepository()
	s := newSessionService(t, repo)
	ctx := context.Background()

	now := time.Now()
	token, err := auth.GenerateToken(1, "alice", []byte("test-secret"), now, now.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &models.Session{UserID: 2, Username: "bob", TokenDigest: cryptox.TokenDigest(token), ExpiresAt: now.Add(time.Hour)}))

	_, err = s.Verify(ctx, token)
	require.ErrorIs(t, err, common.ErrUnauthenticated)
}

type failingSessionRepo struct{ err error }

func (f failingSessionRepo) Create(context.Context, *models.Session) error { return f.err }
func (f failingSessionRepo) Find(context.Context, string) (*models.Session, error) {
	return nil, f.err
}
func (f failingSessionRepo) Delete(context.Context, string) error { return f.err }

func TestSession_StoreFailures(t *testing.T) {
	s := newSessionService(t, failingSessionRepo{err: errors.New("store down")})
	ctx := context.Background()

	_, _, err := s.CreateSession(ctx, 1, "alice")
	require.Error(t, err)

	now := time.Now()
	token, err := auth.GenerateToken(1, "alice", []byte("test-secret"), now, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = s.Verify(ctx, token)
	require.ErrorIs(t, err, common.ErrUnauthenticated)

	require.Error(t, s.Revoke(ctx, token))
}

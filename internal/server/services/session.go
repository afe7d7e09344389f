package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/corechat/internal/common"
	"github.com/dmitrijs2005/corechat/internal/cryptox"
	"github.com/dmitrijs2005/corechat/internal/logging"
	"github.com/dmitrijs2005/corechat/internal/server/auth"
	"github.com/dmitrijs2005/corechat/internal/server/config"
	"github.com/dmitrijs2005/corechat/internal/server/models"
	"github.com/dmitrijs2005/corechat/internal/server/repositories/sessions"
)

// SessionService issues, verifies and revokes session tokens. A token is
// only accepted when its signature checks out and a matching, unexpired
// server-side record exists.
type SessionService struct {
	repo      sessions.Repository
	jwtSecret []byte
	validity  time.Duration
	logger    logging.Logger
	now       func() time.Time
}

func NewSessionService(repo sessions.Repository, cfg *config.Config, logger logging.Logger) *SessionService {
	validity := cfg.SessionValidity
	if validity <= 0 {
		validity = 7 * 24 * time.Hour
	}
	return &SessionService{
		repo:      repo,
		jwtSecret: []byte(cfg.SecretKey),
		validity:  validity,
		logger:    logger.With("module", "sessions"),
		now:       time.Now,
	}
}

// CreateSession mints a token for the account and stores its record.
func (s *SessionService) CreateSession(ctx context.Context, userID int64, username string) (string, time.Time, error) {

	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.validity)

	token, err := auth.GenerateToken(userID, username, s.jwtSecret, issuedAt, expiresAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error generating token: %w", err)
	}

	session := &models.Session{
		UserID:      userID,
		Username:    username,
		TokenDigest: cryptox.TokenDigest(token),
		ExpiresAt:   expiresAt,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return "", time.Time{}, fmt.Errorf("error saving session: %w", err)
	}

	return token, expiresAt, nil
}

// Verify resolves a token to the identity it was issued for. Every failure
// (bad signature, unknown, revoked or expired record) yields
// common.ErrUnauthenticated.
func (s *SessionService) Verify(ctx context.Context, token string) (*models.Identity, error) {

	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	digest := cryptox.TokenDigest(token)

	session, err := s.repo.Find(ctx, digest)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "session lookup failed", "error", err)
		}
		return nil, common.ErrUnauthenticated
	}

	if session.Expired(s.now()) {
		if err := s.repo.Delete(ctx, digest); err != nil {
			s.logger.Warn(ctx, "failed to drop expired session", "error", err)
		}
		return nil, common.ErrUnauthenticated
	}

	if session.UserID != claims.UserID {
		return nil, common.ErrUnauthenticated
	}

	return &models.Identity{UserID: session.UserID, Username: session.Username}, nil
}

// Revoke deletes the record behind token. Unknown tokens are ignored.
func (s *SessionService) Revoke(ctx context.Context, token string) error {

	if token == "" {
		return nil
	}

	if err := s.repo.Delete(ctx, cryptox.TokenDigest(token)); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}

	return nil
}

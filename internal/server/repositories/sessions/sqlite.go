package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/corechat/internal/common"
	"github.com/dmitrijs2005/corechat/internal/dbx"
	"github.com/dmitrijs2005/corechat/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, session *models.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, token, expires_at) VALUES (?, ?, ?)`,
		session.UserID, session.TokenDigest, session.ExpiresAt.UnixMicro())
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Find(ctx context.Context, digest string) (*models.Session, error) {
	s := &models.Session{TokenDigest: digest}
	var expiresAt int64

	err := r.db.QueryRowContext(ctx, `
		SELECT s.user_id, u.username, s.expires_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = ?
	`, digest).Scan(&s.UserID, &s.Username, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	s.ExpiresAt = time.UnixMicro(expiresAt).UTC()
	return s, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, digest string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, digest); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

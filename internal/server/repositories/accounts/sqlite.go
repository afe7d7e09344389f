package accounts

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

func (r *SQLiteRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password, created_at) VALUES (?, ?, ?, ?)`,
		account.Username, account.Email, account.PasswordHash, account.CreatedAt.UnixMicro())
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read account id: %w", err)
	}
	account.ID = id

	return account, nil
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.getOne(ctx, `SELECT id, username, email, password, created_at FROM users WHERE username = ?`, username)
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getOne(ctx, `SELECT id, username, email, password, created_at FROM users WHERE email = ?`, email)
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, arg string) (*models.Account, error) {
	a := &models.Account{}
	var createdAt int64

	err := r.db.QueryRowContext(ctx, query, arg).Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	a.CreatedAt = time.UnixMicro(createdAt).UTC()
	return a, nil
}

package messages

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/corechat/internal/dbx"
	"github.com/dmitrijs2005/corechat/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, m *models.Message) error {
	query :=
		`INSERT INTO messages (id, role, content, created_at)
		 VALUES ($1, $2, $3, $4)
		 `
	if _, err := r.db.ExecContext(ctx, query, m.ID, string(m.Role), m.Content, m.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Message, error) {
	query :=
		`SELECT id, role, content, created_at FROM messages
		 ORDER BY created_at, seq
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		var role string
		if err := rows.Scan(&m.ID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		m.Role = models.Role(role)
		result = append(result, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

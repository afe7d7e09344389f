// Package messages stores the conversation log.
package messages

import (
	"context"

	"github.com/dmitrijs2005/corechat/internal/server/models"
)

// Repository is an append-only message log.
type Repository interface {
	// Insert persists a fully formed message (id and timestamp already set).
	Insert(ctx context.Context, message *models.Message) error

	// List returns all messages ordered by timestamp ascending, insertion
	// order breaking ties. An empty log yields an empty, non-nil slice.
	List(ctx context.Context) ([]models.Message, error)

	// Clear deletes every message in one atomic step.
	Clear(ctx context.Context) error
}

// Package sessions stores the server-side records that back signed session
// tokens. Records are keyed by token digest, never by the raw token.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/corechat/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking
// session records.
type Repository interface {
	// Create stores a session record.
	Create(ctx context.Context, session *models.Session) error

	// Find looks up a session by token digest. Implementations return
	// common.ErrorNotFound when the record is absent. Expiry is not checked
	// here; callers decide what an expired record means.
	Find(ctx context.Context, digest string) (*models.Session, error)

	// Delete removes a session by token digest. Deleting a non-existent
	// record is not an error.
	Delete(ctx context.Context, digest string) error
}

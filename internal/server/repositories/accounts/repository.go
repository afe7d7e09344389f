// Package accounts stores registered accounts (the credential store).
package accounts

import (
	"context"

	"github.com/dmitrijs2005/corechat/internal/server/models"
)

// Repository defines persistence for accounts. Accounts are never updated
// or deleted.
type Repository interface {
	// Create inserts the account and fills in its ID. A username or email that
	// already exists yields common.ErrDuplicateIdentity.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetByUsername returns the account with exactly this username, or
	// common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.Account, error)

	// GetByEmail returns the account with exactly this email, or
	// common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}

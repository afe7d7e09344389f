// Package repomanager vends repository implementations for the configured
// storage driver and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/corechat/internal/dbx"
	"github.com/dmitrijs2005/corechat/internal/server/migrations"
	"github.com/dmitrijs2005/corechat/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/corechat/internal/server/repositories/messages"
	"github.com/dmitrijs2005/corechat/internal/server/repositories/sessions"
	"github.com/pressly/goose/v3"
)

// RepositoryManager binds repositories to a DBTX, which lets services run
// several repositories inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Messages(db dbx.DBTX) messages.Repository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func migrate(ctx context.Context, db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, dir)
}

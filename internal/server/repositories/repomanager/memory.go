package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/corechat/internal/dbx"
	"github.com/dmitrijs2005/corechat/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/corechat/internal/server/repositories/messages"
	"github.com/dmitrijs2005/corechat/internal/server/repositories/sessions"
)

// MemoryRepositoryManager hands out the same in-process repositories
// regardless of the DBTX argument, which is expected to be nil.
type MemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
	sessions *sessions.MemoryRepository
	messages *messages.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		accounts: accounts.NewMemoryRepository(),
		sessions: sessions.NewMemoryRepository(),
		messages: messages.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Accounts(dbx.DBTX) accounts.Repository { return m.accounts }

func (m *MemoryRepositoryManager) Sessions(dbx.DBTX) sessions.Repository { return m.sessions }

func (m *MemoryRepositoryManager) Messages(dbx.DBTX) messages.Repository { return m.messages }

// RunMigrations is a no-op: there is no schema.
func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

package accounts

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/corechat/internal/common"
	"github.com/dmitrijs2005/corechat/internal/server/models"
)

// MemoryRepository keeps accounts in process memory. Uniqueness of username
// and email is enforced under the same lock as the insert.
type MemoryRepository struct {
	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]models.Account
	byUsername map[string]int64
	byEmail    map[string]int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[int64]models.Account),
		byUsername: make(map[string]int64),
		byEmail:    make(map[string]int64),
	}
}

func (r *MemoryRepository) Create(_ context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[account.Username]; ok {
		return nil, common.ErrDuplicateIdentity
	}
	if _, ok := r.byEmail[account.Email]; ok {
		return nil, common.ErrDuplicateIdentity
	}

	r.nextID++
	account.ID = r.nextID
	r.byID[account.ID] = *account
	r.byUsername[account.Username] = account.ID
	r.byEmail[account.Email] = account.ID

	return account, nil
}

func (r *MemoryRepository) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byUsername, username)
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byEmail, email)
}

func (r *MemoryRepository) lookup(index map[string]int64, key string) (*models.Account, error) {
	id, ok := index[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a := r.byID[id]
	return &a, nil
}

package messages

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/corechat/internal/server/models"
)

// MemoryRepository keeps the log in a slice; slice position is the
// insertion order used to break timestamp ties.
type MemoryRepository struct {
	mu       sync.RWMutex
	messages []models.Message
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Insert(_ context.Context, m *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *m)
	return nil
}

func (r *MemoryRepository) List(_ context.Context) ([]models.Message, error) {
	r.mu.RLock()
	out := make([]models.Message, len(r.messages))
	copy(out, r.messages)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
	return nil
}

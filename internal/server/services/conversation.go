package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/corechat/internal/common"
	"github.com/dmitrijs2005/corechat/internal/server/models"
	"github.com/dmitrijs2005/corechat/internal/server/repositories/messages"
	"github.com/dmitrijs2005/corechat/internal/timex"
	"github.com/google/uuid"
)

// Clock yields creation timestamps; successive calls must strictly increase.
type Clock interface {
	Now() time.Time
}

// clockSeeder is implemented by clocks that can resume after stored times.
type clockSeeder interface {
	Observe(t time.Time)
}

// ConversationStore is the append-only conversation log. It stamps each
// message with a fresh id and a monotonic timestamp before persisting it.
type ConversationStore struct {
	repo  messages.Repository
	clock Clock
	newID func() string
}

func NewConversationStore(repo messages.Repository) *ConversationStore {
	return &ConversationStore{
		repo:  repo,
		clock: timex.NewMonotonicClock(),
		newID: uuid.NewString,
	}
}

// SeedClock moves the clock past the newest stored message so messages
// appended after a restart still sort last, even if the wall clock went
// back in between.
func (c *ConversationStore) SeedClock(ctx context.Context) error {
	seeder, ok := c.clock.(clockSeeder)
	if !ok {
		return nil
	}

	list, err := c.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("error seeding clock: %w", err)
	}

	for _, m := range list {
		seeder.Observe(m.CreatedAt)
	}
	return nil
}

// Append stores a new message and returns the stored record.
func (c *ConversationStore) Append(ctx context.Context, role models.Role, content string) (*models.Message, error) {

	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrInvalidInput, role)
	}

	m := &models.Message{
		ID:        c.newID(),
		Role:      role,
		Content:   content,
		CreatedAt: c.clock.Now(),
	}

	if err := c.repo.Insert(ctx, m); err != nil {
		return nil, fmt.Errorf("error appending message: %w", err)
	}

	return m, nil
}

// List returns every message, oldest first.
func (c *ConversationStore) List(ctx context.Context) ([]models.Message, error) {
	list, err := c.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	if list == nil {
		list = []models.Message{}
	}
	return list, nil
}

// Clear removes every message at once.
func (c *ConversationStore) Clear(ctx context.Context) error {
	if err := c.repo.Clear(ctx); err != nil {
		return fmt.Errorf("error clearing messages: %w", err)
	}
	return nil
}

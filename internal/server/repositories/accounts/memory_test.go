package accounts

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/dmitrijs2005/corechat/internal/common"
	"github.com/dmitrijs2005/corechat/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_CreateAndLookup(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	a, err := r.Create(ctx, &models.Account{Username: "alice", Email: "a@x.io", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)

	got, err := r.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", got.Email)

	got, err = r.GetByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = r.GetByUsername(ctx, "a@x.io")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	_, err := r.Create(ctx, &models.Account{Username: "alice", Email: "a@x.io", PasswordHash: "h"})
	require.NoError(t, err)

	got, err := r.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	got.PasswordHash = "tampered"

	again, err := r.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h", again.PasswordHash)
}

func TestMemory_Duplicates(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	_, err := r.Create(ctx, &models.Account{Username: "alice", Email: "a@x.io"})
	require.NoError(t, err)

	_, err = r.Create(ctx, &models.Account{Username: "alice", Email: "b@x.io"})
	require.ErrorIs(t, err, common.ErrDuplicateIdentity)
	_, err = r.Create(ctx, &models.Account{Username: "bob", Email: "a@x.io"})
	require.ErrorIs(t, err, common.ErrDuplicateIdentity)
}

func TestMemory_ConcurrentRegistrationSameUsername(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, dup := 0, 0

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.Create(ctx, &models.Account{Username: "same", Email: fmt.Sprintf("u%d@x.io", i)})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if err == common.ErrDuplicateIdentity {
				dup++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
}

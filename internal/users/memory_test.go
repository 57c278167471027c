package users

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prompthub/prompthub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepo_Lookups(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	_, err := r.GetByExternalID(ctx, "nobody")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = r.GetByUsername(ctx, "")
	require.ErrorIs(t, err, ErrNotFound)

	u, err := r.UpsertByExternalID(ctx, &models.User{ExternalID: "ext-1", Email: "a@b.c"})
	require.NoError(t, err)
	_, err = r.SetUsername(ctx, "ext-1", "ann")
	require.NoError(t, err)

	got, err := r.GetByUsername(ctx, "ann")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	// returned values are copies
	got.Username = "mutated"
	again, err := r.GetByExternalID(ctx, "ext-1")
	require.NoError(t, err)
	assert.Equal(t, "ann", again.Username)
}

func TestMemoryRepo_ConcurrentSameUsername(t *testing.T) {
	r := NewMemoryRepo()
	svc := NewService(r)
	ctx := context.Background()
	const n = 20
	for i := 0; i < n; i++ {
		_, err := svc.SyncProfile(ctx, ProfileInput{ExternalID: fmt.Sprintf("user_%d", i)})
		require.NoError(t, err)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.UpdateUsername(ctx, fmt.Sprintf("user_%d", i), "popular")
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrUsernameTaken) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, successes)
}

package pending

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveAndPop(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	action := Action{Kind: StakeConfirm, Amount: 10, Netuid: 3}
	require.NoError(t, store.Save(ctx, "telegram:1", action, 30*time.Second))

	popped, err := store.Pop(ctx, "telegram:1")
	require.NoError(t, err)
	assert.Equal(t, StakeConfirm, popped.Kind)
	assert.Equal(t, 10.0, popped.Amount)
	assert.Equal(t, 3, popped.Netuid)
	assert.True(t, popped.ExpiresAt.After(popped.CreatedAt))
}

func TestMemoryStore_PopRemovesEntry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "telegram:1", Action{Kind: StakeConfirm}, time.Minute))

	_, err := store.Pop(ctx, "telegram:1")
	require.NoError(t, err)

	_, err = store.Pop(ctx, "telegram:1")
	assert.ErrorIs(t, err, ErrNoPending)
}

func TestMemoryStore_PopMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Pop(context.Background(), "telegram:404")
	assert.ErrorIs(t, err, ErrNoPending)
}

func TestMemoryStore_TTLBoundary(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "telegram:1", Action{Kind: StakeConfirm}, 30*time.Second))

	// live right up to (but excluding) the expiry instant
	now = base.Add(30*time.Second - time.Nanosecond)
	_, err := store.Pop(ctx, "telegram:1")
	assert.NoError(t, err)

	require.NoError(t, store.Save(ctx, "telegram:1", Action{Kind: StakeConfirm}, 30*time.Second))

	now = base.Add(60 * time.Second)
	_, err = store.Pop(ctx, "telegram:1")
	assert.ErrorIs(t, err, ErrNoPending)
}

func TestMemoryStore_ExpiredPopClearsSlot(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "telegram:1", Action{Kind: UnstakeConfirm}, time.Second))
	now = now.Add(2 * time.Second)

	_, err := store.Pop(ctx, "telegram:1")
	assert.ErrorIs(t, err, ErrNoPending)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_SaveReplacesLiveAction(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "telegram:1", Action{Kind: StakeConfirm, Amount: 10, Netuid: 3}, time.Minute))
	require.NoError(t, store.Save(ctx, "telegram:1", Action{Kind: UnstakeAllConfirm, Netuid: 7}, time.Minute))

	popped, err := store.Pop(ctx, "telegram:1")
	require.NoError(t, err)
	assert.Equal(t, UnstakeAllConfirm, popped.Kind)
	assert.Equal(t, 7, popped.Netuid)

	_, err = store.Pop(ctx, "telegram:1")
	assert.ErrorIs(t, err, ErrNoPending)
}

func TestMemoryStore_KeysAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "telegram:1", Action{Kind: StakeConfirm, Netuid: 1}, time.Minute))
	require.NoError(t, store.Save(ctx, "discord:1", Action{Kind: StakeConfirm, Netuid: 2}, time.Minute))

	a, err := store.Pop(ctx, "telegram:1")
	require.NoError(t, err)
	assert.Equal(t, 1, a.Netuid)

	b, err := store.Pop(ctx, "discord:1")
	require.NoError(t, err)
	assert.Equal(t, 2, b.Netuid)
}

func TestMemoryStore_ConcurrentPopReturnsActionOnce(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "telegram:1", Action{Kind: StakeConfirm}, time.Minute))

	const goroutines = 16

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()

			if _, err := store.Pop(ctx, "telegram:1"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newClockedStore(t *testing.T) (*InMemoryIdempotencyStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewInMemoryIdempotencyStore(time.Hour)
	store.now = clock.Now
	t.Cleanup(func() { _ = store.Close() })
	return store, clock
}

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store, clock := newClockedStore(t)
	ctx := context.Background()

	first, err := store.MarkProcessed(ctx, "cart:add:u1:k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.MarkProcessed(ctx, "cart:add:u1:k1", time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	clock.Advance(2 * time.Minute)
	afterExpiry, err := store.MarkProcessed(ctx, "cart:add:u1:k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, afterExpiry, "expired keys can be claimed again")
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store, clock := newClockedStore(t)
	ctx := context.Background()

	done, err := store.IsProcessed(ctx, "k")
	require.NoError(t, err)
	assert.False(t, done)

	_, _ = store.MarkProcessed(ctx, "k", time.Minute)
	done, _ = store.IsProcessed(ctx, "k")
	assert.True(t, done)

	clock.Advance(time.Minute)
	done, _ = store.IsProcessed(ctx, "k")
	assert.False(t, done)
}

func TestInMemoryIdempotencyStore_Release(t *testing.T) {
	store, _ := newClockedStore(t)
	ctx := context.Background()

	_, _ = store.MarkProcessed(ctx, "k", time.Hour)
	require.NoError(t, store.Release(ctx, "k"))
	require.NoError(t, store.Release(ctx, "never-set"))

	claimed, err := store.MarkProcessed(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestInMemoryIdempotencyStore_Sweep(t *testing.T) {
	store, clock := newClockedStore(t)
	ctx := context.Background()

	_, _ = store.MarkProcessed(ctx, "short", time.Second)
	_, _ = store.MarkProcessed(ctx, "long", time.Hour)
	clock.Advance(time.Minute)

	store.sweep()
	assert.Equal(t, 1, store.Len())
}

func TestInMemoryIdempotencyStore_ConcurrentClaims(t *testing.T) {
	store, _ := newClockedStore(t)
	ctx := context.Background()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.MarkProcessed(ctx, "contended", time.Minute); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), winners.Load())
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore(10 * time.Millisecond)
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

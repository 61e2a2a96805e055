package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_Seen(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("first delivery is unseen", func(t *testing.T) {
		seen, err := store.Seen(ctx, "delivery-1", 1*time.Hour)
		require.NoError(t, err)
		assert.False(t, seen, "first delivery should be unseen")
	})

	t.Run("retried delivery is seen", func(t *testing.T) {
		key := "delivery-2"

		seen, err := store.Seen(ctx, key, 1*time.Hour)
		require.NoError(t, err)
		assert.False(t, seen)

		seen, err = store.Seen(ctx, key, 1*time.Hour)
		require.NoError(t, err)
		assert.True(t, seen, "retried delivery should be seen")
	})

	t.Run("delivery is unseen again after the TTL", func(t *testing.T) {
		key := "delivery-3"
		ttl := 10 * time.Millisecond

		seen, err := store.Seen(ctx, key, ttl)
		require.NoError(t, err)
		assert.False(t, seen)

		time.Sleep(20 * time.Millisecond)

		seen, err = store.Seen(ctx, key, ttl)
		require.NoError(t, err)
		assert.False(t, seen, "expired key should be unseen again")
	})
}

func TestInMemoryIdempotencyStore_Size(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	assert.Equal(t, 0, store.Size(), "empty store should have size 0")

	store.Seen(ctx, "delivery-1", 1*time.Hour)
	assert.Equal(t, 1, store.Size())

	store.Seen(ctx, "delivery-2", 1*time.Hour)
	assert.Equal(t, 2, store.Size())

	// Repeating a key shouldn't increase size
	store.Seen(ctx, "delivery-1", 1*time.Hour)
	assert.Equal(t, 2, store.Size())
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	store.Seen(ctx, "short-lived-1", 10*time.Millisecond)
	store.Seen(ctx, "short-lived-2", 10*time.Millisecond)
	store.Seen(ctx, "long-lived", 1*time.Hour)

	assert.Equal(t, 3, store.Size())

	// Wait for short-lived entries to expire
	time.Sleep(20 * time.Millisecond)

	// Manually trigger cleanup
	store.cleanup()

	// Only the long-lived entry should remain
	assert.Equal(t, 1, store.Size())

	seen, err := store.Seen(ctx, "long-lived", 1*time.Hour)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestInMemoryIdempotencyStore_ConcurrentAccess(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	const numGoroutines = 100
	const key = "concurrent-delivery"

	results := make(chan bool, numGoroutines)

	// Launch concurrent goroutines racing on the same key
	for i := 0; i < numGoroutines; i++ {
		go func() {
			seen, err := store.Seen(ctx, key, 1*time.Hour)
			if err != nil {
				results <- true
			} else {
				results <- seen
			}
		}()
	}

	unseenCount := 0
	seenCount := 0
	for i := 0; i < numGoroutines; i++ {
		if <-results {
			seenCount++
		} else {
			unseenCount++
		}
	}

	// Exactly one goroutine should win the race
	assert.Equal(t, 1, unseenCount, "exactly one goroutine should see the key as new")
	assert.Equal(t, numGoroutines-1, seenCount, "all others should see it as a duplicate")
}

func TestInMemoryIdempotencyStore_Close(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	err := store.Close()
	assert.NoError(t, err)

	// Multiple closes should be safe
	err = store.Close()
	assert.NoError(t, err)
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryMutexStore(t *testing.T) {
	ctx := context.Background()

	t.Run("second acquirer is refused while held", func(t *testing.T) {
		store := NewInMemoryMutexStore()

		ok, err := store.Acquire(ctx, "escalation:sweep", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Acquire(ctx, "escalation:sweep", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("release frees the lock", func(t *testing.T) {
		store := NewInMemoryMutexStore()

		ok, err := store.Acquire(ctx, "k", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, store.Release(ctx, "k"))

		ok, err = store.Acquire(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired lock can be re-acquired", func(t *testing.T) {
		store := NewInMemoryMutexStore()

		ok, err := store.Acquire(ctx, "k", time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)

		time.Sleep(5 * time.Millisecond)

		ok, err = store.Acquire(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("distinct keys are independent", func(t *testing.T) {
		store := NewInMemoryMutexStore()

		ok, err := store.Acquire(ctx, "a", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = store.Acquire(ctx, "b", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryBinding_GetEmpty(t *testing.T) {
	store := NewMemoryStore()
	binding := store.Binding("sess-1")

	_, err := binding.Get(context.Background())
	assert.ErrorIs(t, err, ErrNoBinding)
}

func TestMemoryBinding_SetGetClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	binding := store.Binding("sess-1")

	err := binding.Set(ctx, 7)
	assert.NoError(t, err)

	orderID, err := binding.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), orderID)

	err = binding.Clear(ctx)
	assert.NoError(t, err)

	_, err = binding.Get(ctx)
	assert.ErrorIs(t, err, ErrNoBinding)
}

func TestMemoryBinding_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Binding("sess-1").Set(ctx, 7)
	assert.NoError(t, err)

	_, err = store.Binding("sess-2").Get(ctx)
	assert.ErrorIs(t, err, ErrNoBinding)
}

func TestMemoryBinding_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	binding := store.Binding("sess-1")

	assert.NoError(t, binding.Clear(ctx))
	assert.NoError(t, binding.Clear(ctx))
}

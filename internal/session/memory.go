package session

import (
	"context"
	"sync"
)

// MemoryStore keeps bindings in process memory. Used in tests and as a
// fallback when Redis is not configured.
type MemoryStore struct {
	mu       sync.Mutex
	bindings map[string]uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bindings: make(map[string]uint)}
}

func (s *MemoryStore) Binding(sessionID string) Binding {
	return &memoryBinding{store: s, sessionID: sessionID}
}

type memoryBinding struct {
	store     *MemoryStore
	sessionID string
}

func (b *memoryBinding) Get(ctx context.Context) (uint, error) {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	orderID, ok := b.store.bindings[b.sessionID]
	if !ok {
		return 0, ErrNoBinding
	}
	return orderID, nil
}

func (b *memoryBinding) Set(ctx context.Context, orderID uint) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	b.store.bindings[b.sessionID] = orderID
	return nil
}

func (b *memoryBinding) Clear(ctx context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	delete(b.store.bindings, b.sessionID)
	return nil
}

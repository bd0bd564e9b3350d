package cart

import (
	"context"
	"sync"
)

// Store persists carts by id. Load of an unknown cart returns an empty
// slice and no error.
type Store interface {
	Load(ctx context.Context, cartID string) ([]Item, error)
	Save(ctx context.Context, cartID string, items []Item) error
	Delete(ctx context.Context, cartID string) error
}

// MemoryStore keeps carts in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]Item)}
}

func (s *MemoryStore) Load(_ context.Context, cartID string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Item{}, s.carts[cartID]...), nil
}

func (s *MemoryStore) Save(_ context.Context, cartID string, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(items) == 0 {
		delete(s.carts, cartID)
		return nil
	}
	s.carts[cartID] = append([]Item(nil), items...)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, cartID)
	return nil
}

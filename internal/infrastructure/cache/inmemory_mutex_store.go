package cache

import (
	"context"
	"sync"
	"time"

	"github.com/awqaf/backend/internal/domain/shared"
)

// InMemoryMutexStore implements MutexStore for single-instance
// deployments and tests. Expired holders are reaped lazily on the next
// Acquire of the same key.
type InMemoryMutexStore struct {
	mu    sync.Mutex
	locks map[string]time.Time // key -> expiry
}

// NewInMemoryMutexStore creates an in-memory mutex store
func NewInMemoryMutexStore() *InMemoryMutexStore {
	return &InMemoryMutexStore{
		locks: make(map[string]time.Time),
	}
}

var _ shared.MutexStore = (*InMemoryMutexStore)(nil)

// Acquire attempts to take the named lock for ttl
func (s *InMemoryMutexStore) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if expiry, held := s.locks[key]; held && now.Before(expiry) {
		return false, nil
	}
	s.locks[key] = now.Add(ttl)
	return true, nil
}

// Release frees the named lock
func (s *InMemoryMutexStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, key)
	return nil
}

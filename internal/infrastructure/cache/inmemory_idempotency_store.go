package cache

import (
	"context"
	"sync"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
)

// InMemoryIdempotencyStore keeps reservations in process memory.
// Suitable for single-instance deployments and tests.
type InMemoryIdempotencyStore struct {
	mu        sync.Mutex
	entries   map[string]time.Time
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore starts a janitor that evicts expired keys every interval
func NewInMemoryIdempotencyStore(interval time.Duration) *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		entries:  make(map[string]time.Time),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	if interval > 0 {
		s.wg.Add(1)
		go s.cleanupLoop(interval)
	}
	return s
}

func (s *InMemoryIdempotencyStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expiresAt, ok := s.entries[key]; ok && now.Before(expiresAt) {
		return false, nil
	}
	s.entries[key] = now.Add(ttl)
	return true, nil
}

func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Close stops the janitor. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *InMemoryIdempotencyStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, expiresAt := range s.entries {
		if now.After(expiresAt) {
			delete(s.entries, key)
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

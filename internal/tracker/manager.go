package tracker

import (
	"context"
	"log"
	"sync"
	"time"

	"schedulsy-api/internal/cache"
)

// BackendFactory builds the backend for a newly opened session.
type BackendFactory func(sessionID string) Backend

// Discarder is implemented by backends that hold state outside the Store
// value and need to drop it when the session ends.
type Discarder interface {
	Discard(ctx context.Context) error
}

// Manager hands out one Store per session. A store lives until its session
// is closed or its TTL runs out; after that its backend is discarded.
type Manager struct {
	mu      sync.Mutex
	stores  *cache.SimpleCache[string, *Store]
	factory BackendFactory
	ttl     time.Duration
}

// NewManager creates a Manager. A ttl <= 0 keeps stores until Close.
func NewManager(factory BackendFactory, ttl time.Duration) *Manager {
	m := &Manager{
		factory: factory,
		ttl:     ttl,
	}
	m.stores = cache.NewSimpleCache[string, *Store](cache.Options[string, *Store]{
		ConcurrencySafe: true,
		OnEvict:         m.discard,
	})
	return m
}

// NewMemoryManager creates a Manager whose stores live in process memory.
func NewMemoryManager(ttl time.Duration) *Manager {
	return NewManager(func(string) Backend { return NewMemoryBackend() }, ttl)
}

// Open returns the store of sessionID, creating it on first use.
func (m *Manager) Open(sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores.Get(sessionID); ok {
		return s
	}
	s := NewStore(m.factory(sessionID))
	m.stores.Set(sessionID, s, m.ttl)
	return s
}

// Close ends a session and discards its store.
func (m *Manager) Close(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores.Delete(sessionID)
}

// Sweep discards the stores of expired sessions.
func (m *Manager) Sweep() {
	m.stores.PurgeExpired()
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	return m.stores.Len()
}

func (m *Manager) discard(sessionID string, s *Store) {
	d, ok := s.backend.(Discarder)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Discard(ctx); err != nil {
		log.Printf("failed to discard tasks of session %s: %v", sessionID, err)
	}
}

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/havenwell/waypoint/internal/models"
	"github.com/jonboulle/clockwork"
)

type memoryEntry struct {
	value     models.ResolvedResponse
	expiresAt time.Time
}

// MemoryStore is a process-local Store. Expiry is passive: entries are
// checked at read time, there is no background sweep.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	entries map[string]memoryEntry
}

// NewMemoryStore creates an empty in-memory store. A nil clock falls
// back to real time.
func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &MemoryStore{
		clock:   clock,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (models.ResolvedResponse, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return models.ResolvedResponse{}, false, nil
	}
	if !s.clock.Now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return models.ResolvedResponse{}, false, nil
	}

	return entry.value, true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value models.ResolvedResponse, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{
		value:     value,
		expiresAt: s.clock.Now().Add(ttl),
	}

	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)

	return nil
}

// Len counts live entries only; expired ones awaiting a read are
// dropped on the way.
func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for key, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, key)
		}
	}

	return len(s.entries), nil
}

var _ Store = (*MemoryStore)(nil)

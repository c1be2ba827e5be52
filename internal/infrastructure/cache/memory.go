package cache

import (
	"sync"
	"time"
)

const sweepInterval = 5 * time.Minute

// MemoryStore is a process-local TTL cache. The translation layer uses it
// to reuse translated agenda text across summary folds and meeting edits.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStore creates the store and starts its expiry sweeper
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		entries: make(map[string]memoryEntry),
	}
	go store.sweep()
	return store
}

// Set stores a value with a TTL
func (s *MemoryStore) Set(key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Get returns the value for key, reporting whether a live entry exists
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.value, true
}

// Delete removes a key
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// sweep drops expired entries so long-lived processes do not accumulate
// stale translations
func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for key, entry := range s.entries {
			if now.After(entry.expiresAt) {
				delete(s.entries, key)
			}
		}
		s.mu.Unlock()
	}
}

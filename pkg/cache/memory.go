package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the default in-process backend: a mutex-guarded map with
// TTL evaluated on read. Expired entries are deleted when observed.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an in-memory store. A non-positive ttl falls
// back to DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]*Entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the entry for key, or ErrCacheMiss when absent or expired.
func (s *MemoryStore) Get(_ context.Context, key Key) (*Entry, error) {
	k := key.String()

	s.mu.RLock()
	entry, ok := s.entries[k]
	s.mu.RUnlock()

	if !ok {
		CacheMisses.WithLabelValues("memory").Inc()
		return nil, ErrCacheMiss
	}

	if entry.Expired(s.now(), s.ttl) {
		s.mu.Lock()
		// Recheck under the write lock: a concurrent Set may have
		// refreshed the entry since the read.
		if current, ok := s.entries[k]; ok && current.Expired(s.now(), s.ttl) {
			delete(s.entries, k)
		}
		s.mu.Unlock()
		CacheMisses.WithLabelValues("memory").Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues("memory").Inc()
	return entry, nil
}

// Set stores the entry under key, replacing any existing value.
func (s *MemoryStore) Set(_ context.Context, key Key, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key.String()] = entry
	return nil
}

// Delete removes the entry for key. Deleting an absent key is a no-op.
func (s *MemoryStore) Delete(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key.String())
	return nil
}

// Len returns the number of stored entries, including any not yet swept
// expired ones.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// SetClock overrides the time source (for testing).
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.now = now
}

// Package marker tracks which outgoing messages originated from an
// AI-generation flow. Entries are short-lived and purely in-memory;
// losing them on restart only costs a skipped polish.
package marker

import (
	"sync"
	"time"
)

// Store is a TTL set of marker keys. Safe for concurrent use from hook
// invocations and the background cleanup loop.
type Store struct {
	mu      sync.Mutex
	entries map[string]time.Time
	ttl     time.Duration
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Mark records the key with the current time. Re-marking resets the
// timestamp.
func (s *Store) Mark(key string) {
	s.mu.Lock()
	s.entries[key] = s.now()
	s.mu.Unlock()
}

// IsValid reports whether the key was marked within the TTL. Expired
// entries are removed on the way out. Validity uses the monotonic
// reading carried by time.Time, so wall-clock adjustments do not
// invalidate or revive markers.
func (s *Store) IsValid(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	created, ok := s.entries[key]
	if !ok {
		return false
	}
	if s.now().Sub(created) > s.ttl {
		delete(s.entries, key)
		return false
	}
	return true
}

// Remove deletes the key if present.
func (s *Store) Remove(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// CleanupExpired removes all entries older than the TTL and returns
// how many were dropped.
func (s *Store) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for key, created := range s.entries {
		if now.Sub(created) > s.ttl {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Clear drops all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]time.Time)
	s.mu.Unlock()
}

// Len returns the number of live entries, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

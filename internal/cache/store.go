// Package cache contain in-memory TTL store used by the api client to keep GET responses
package cache

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// DefaultCleanUpInterval is how often the background sweeper removes expired entries
const DefaultCleanUpInterval = 10 * time.Minute

// Entry is a single cached value with the time it was stored and how long it stays fresh
type Entry[V any] struct {
	Data      V
	Timestamp time.Time
	TTL       time.Duration
}

func (e Entry[V]) fresh(now time.Time) bool {
	return now.Sub(e.Timestamp) <= e.TTL
}

// Store is a TTL key/value map safe for concurrent use.
// There is no size bound, entries leave only by TTL expiry, explicit deletion or sweep.
type Store[V any] struct {
	entries map[string]Entry[V]
	mu      sync.RWMutex
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a store and starts a goroutine that calls CleanUpExpired every interval.
// Non-positive interval disables the sweeper.
func New[V any](interval time.Duration) *Store[V] {
	store := &Store[V]{
		entries: make(map[string]Entry[V]),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if interval > 0 {
		go periodiclyCleanUp(store, interval)
	}
	return store
}

func periodiclyCleanUp[V any](store *Store[V], interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			store.CleanUpExpired()
		case <-store.stop:
			return
		}
	}
}

// Close stops the background sweeper. Entries stay readable.
func (s *Store[V]) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Set stores value under key, replacing any previous entry
func (s *Store[V]) Set(key string, value V, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = Entry[V]{Data: value, Timestamp: s.now(), TTL: ttl}
}

// Get returns the value when it is still fresh. A stale entry is deleted.
func (s *Store[V]) Get(key string) (V, bool) {
	var zero V

	s.mu.RLock()
	entry, exists := s.entries[key]
	s.mu.RUnlock()

	if !exists {
		return zero, false
	}
	if entry.fresh(s.now()) {
		return entry.Data, true
	}

	s.mu.Lock()
	// re-check, another writer may have refreshed the key meanwhile
	if current, ok := s.entries[key]; ok && !current.fresh(s.now()) {
		delete(s.entries, key)
	}
	s.mu.Unlock()
	return zero, false
}

// Has reports whether key holds a fresh entry without touching the map
func (s *Store[V]) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.entries[key]
	return exists && entry.fresh(s.now())
}

// Delete removes key
func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
}

// Clear removes every entry
func (s *Store[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]Entry[V])
}

// InvalidatePrefix removes every entry whose key starts with prefix and returns how many were removed
func (s *Store[V]) InvalidatePrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// CleanUpExpired sweeps all stale entries and returns how many were removed
func (s *Store[V]) CleanUpExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, entry := range s.entries {
		if !entry.fresh(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns number of entries, fresh or not
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Key builds the cache key from url and JSON form of params.
// Map params serialize with sorted keys, struct params in field order.
func Key(url string, params any) string {
	if params == nil {
		return url
	}
	b, err := json.Marshal(params)
	if err != nil {
		return url
	}
	return url + string(b)
}

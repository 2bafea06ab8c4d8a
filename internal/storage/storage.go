// Package storage persist client side state between runs, the equivalent of browser local storage
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
)

// Keys written by the client
const (
	KeyAuthToken      = "auth_token"
	KeyRefreshToken   = "refresh_token"
	KeyUserData       = "user_data"
	KeyRecentSearches = "recentSearches"
)

// MaxRecentSearches caps the recentSearches list
const MaxRecentSearches = 10

// ErrNotFound is returned by Get when key has no value
var ErrNotFound = errors.New("storage: key not found")

// Store is a flat string key/value store
type Store interface {
	Get(key string) (string, error)
	Set(key string, value string) error
	Remove(keys ...string) error
}

// MemoryStore keeps values for the lifetime of the process
type MemoryStore struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Get returns value of key or ErrNotFound
func (m *MemoryStore) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores value under key
func (m *MemoryStore) Set(key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

// Remove deletes every given key, missing keys are ignored
func (m *MemoryStore) Remove(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

// GetString returns value of key, empty string when missing or unreadable
func GetString(s Store, key string) string {
	value, err := s.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("storage: failed to read %s: %v", key, err)
		}
		return ""
	}
	return value
}

// LoadJSON decodes the blob under key into v. It reports false when key is missing.
// A blob that fails to decode is removed and reported as missing.
func LoadJSON(s Store, key string, v any) (bool, error) {
	raw, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		log.Printf("storage: clearing corrupted %s: %v", key, err)
		if rmErr := s.Remove(key); rmErr != nil {
			return false, fmt.Errorf("failed to clear corrupted %s: %w", key, rmErr)
		}
		return false, nil
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key
func SaveJSON(s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(key, string(b))
}

// RecentSearches returns stored searches, most recent first
func RecentSearches(s Store) []string {
	searches := []string{}
	if _, err := LoadJSON(s, KeyRecentSearches, &searches); err != nil {
		log.Printf("storage: %v", err)
	}
	return searches
}

// AddRecentSearch puts term in front of the list, dropping an older duplicate and
// anything past MaxRecentSearches. Blank terms are ignored.
func AddRecentSearch(s Store, term string) ([]string, error) {
	term = strings.TrimSpace(term)
	current := RecentSearches(s)
	if term == "" {
		return current, nil
	}

	updated := []string{term}
	for _, existing := range current {
		if strings.EqualFold(existing, term) {
			continue
		}
		updated = append(updated, existing)
		if len(updated) == MaxRecentSearches {
			break
		}
	}

	if err := SaveJSON(s, KeyRecentSearches, updated); err != nil {
		return current, err
	}
	return updated, nil
}

// ClearRecentSearches removes the recentSearches key
func ClearRecentSearches(s Store) error {
	return s.Remove(KeyRecentSearches)
}

package auth

import (
	"time"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/cache"
)

// JwtBlacklistStore remembers revoked token ids until they would have expired anyway
type JwtBlacklistStore interface {
	// IsBlacklisted checks if the given JWT ID (jti) is blacklisted.
	IsBlacklisted(jti string) (bool, error)
	// AddToBlacklist adds the given JWT ID (jti) to the blacklist with an expiration time.
	AddToBlacklist(jti string, exp time.Time) error
}

// InMemoryBlacklistStore keeps revoked ids in a TTL cache
type InMemoryBlacklistStore struct {
	revoked *cache.Store[struct{}]
}

// NewInMemoryBlacklistStore creates a store swept every interval
func NewInMemoryBlacklistStore(interval time.Duration) *InMemoryBlacklistStore {
	return &InMemoryBlacklistStore{revoked: cache.New[struct{}](interval)}
}

// IsBlacklisted implements JwtBlacklistStore
func (s *InMemoryBlacklistStore) IsBlacklisted(jti string) (bool, error) {
	return s.revoked.Has(jti), nil
}

// AddToBlacklist implements JwtBlacklistStore, an exp in the past is a no-op
func (s *InMemoryBlacklistStore) AddToBlacklist(jti string, exp time.Time) error {
	if ttl := time.Until(exp); ttl > 0 {
		s.revoked.Set(jti, struct{}{}, ttl)
	}
	return nil
}

// Len reports how many ids are held, expired ones included until the next sweep
func (s *InMemoryBlacklistStore) Len() int {
	return s.revoked.Len()
}

// Close stops the sweeper
func (s *InMemoryBlacklistStore) Close() {
	s.revoked.Close()
}

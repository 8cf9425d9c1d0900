package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mzelenkov/claimlens/internal/model"
)

// MemoryStore is the in-process cache backend. Entries expire after the
// configured TTL; upserts for the same key overwrite each other, last
// write wins.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a memory store with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryStore{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

// Lookup returns the cached entry for the normalized claim, if present.
func (s *MemoryStore) Lookup(_ context.Context, normalizedClaim string) (*model.CacheEntry, bool, error) {
	val, found := s.cache.Get(Key(normalizedClaim))
	if !found {
		return nil, false, nil
	}
	entry := val.(model.CacheEntry)
	return &entry, true, nil
}

// Upsert stores the entry, replacing any previous one.
func (s *MemoryStore) Upsert(_ context.Context, entry *model.CacheEntry) error {
	// Stored by value so later mutation of the caller's entry cannot
	// alias into the cache.
	s.cache.SetDefault(Key(entry.NormalizedClaim), *entry)
	return nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close() error { return nil }

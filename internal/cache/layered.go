package cache

import (
	"context"

	"github.com/mzelenkov/claimlens/internal/model"
)

// LayeredStore fronts a persistent backend with the memory store. Hits in
// the persistent layer are promoted so hot claims stop paying the backend
// round trip.
type LayeredStore struct {
	front Store
	back  Store
}

// NewLayeredStore layers front (fast) over back (persistent).
func NewLayeredStore(front, back Store) *LayeredStore {
	return &LayeredStore{front: front, back: back}
}

// Lookup checks the front layer first, then the back, promoting on hit.
// A front-layer fault falls through to the back layer.
func (s *LayeredStore) Lookup(ctx context.Context, normalizedClaim string) (*model.CacheEntry, bool, error) {
	if entry, found, err := s.front.Lookup(ctx, normalizedClaim); err == nil && found {
		return entry, true, nil
	}

	entry, found, err := s.back.Lookup(ctx, normalizedClaim)
	if err != nil || !found {
		return nil, false, err
	}

	_ = s.front.Upsert(ctx, entry)
	return entry, true, nil
}

// Upsert writes to both layers. The persistent layer's error wins; a
// memory write cannot meaningfully fail.
func (s *LayeredStore) Upsert(ctx context.Context, entry *model.CacheEntry) error {
	_ = s.front.Upsert(ctx, entry)
	return s.back.Upsert(ctx, entry)
}

// Close closes both layers.
func (s *LayeredStore) Close() error {
	_ = s.front.Close()
	return s.back.Close()
}

// Package cache persists verification results keyed by the normalized
// claim. Lookup is exact-match only: fuzzy matching would make cache
// behavior unauditable. A failing backend degrades to always-miss; the
// pipeline recomputes instead of failing.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mzelenkov/claimlens/internal/model"
)

// Store is the result cache contract. Lookup returns (nil, false, nil)
// for a miss; errors indicate a backend fault, which callers treat as a
// miss. Upsert replaces any existing entry whole, last write wins.
type Store interface {
	Lookup(ctx context.Context, normalizedClaim string) (*model.CacheEntry, bool, error)
	Upsert(ctx context.Context, entry *model.CacheEntry) error
	Close() error
}

// Key derives the backend storage key for a normalized claim. Hashing
// keeps arbitrary claim text safe for any key-value backend.
func Key(normalizedClaim string) string {
	hash := sha256.Sum256([]byte(normalizedClaim))
	return "claimlens:v1:" + hex.EncodeToString(hash[:])
}

// NewStore builds the configured backend. A disabled cache yields nil,
// which the pipeline treats as a permanent miss.
func NewStore(cfg model.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch strings.ToLower(cfg.Backend) {
	case "memory", "":
		return NewMemoryStore(cfg.TTL), nil
	case "postgres":
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("postgres cache requires postgres_url")
		}
		return NewPostgresStore(cfg.PostgresURL)
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis cache requires redis_addr")
		}
		return NewRedisStore(cfg.RedisAddr, cfg.TTL)
	case "layered":
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("layered cache requires postgres_url")
		}
		pg, err := NewPostgresStore(cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		return NewLayeredStore(NewMemoryStore(cfg.TTL), pg), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s (supported: memory, postgres, redis, layered)", cfg.Backend)
	}
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/mzelenkov/claimlens/internal/model"
)

// RedisStore keeps cache entries in Redis as JSON values with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies it responds.
func NewRedisStore(addr string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Lookup fetches the entry for the normalized claim.
func (s *RedisStore) Lookup(ctx context.Context, normalizedClaim string) (*model.CacheEntry, bool, error) {
	raw, err := s.client.Get(ctx, Key(normalizedClaim)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup: %w", err)
	}

	var entry model.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return &entry, true, nil
}

// Upsert stores the entry with the configured TTL.
func (s *RedisStore) Upsert(ctx context.Context, entry *model.CacheEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := s.client.Set(ctx, Key(entry.NormalizedClaim), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache upsert: %w", err)
	}
	return nil
}

// Close closes the client connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

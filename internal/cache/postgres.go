package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/mzelenkov/claimlens/internal/model"
)

// PostgresStore persists cache entries in a claim_cache table. Entries are
// never deleted by this store; retention is an external policy.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects and ensures the cache table exists.
func NewPostgresStore(url string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS claim_cache (
			normalized_claim TEXT PRIMARY KEY,
			verdict          TEXT NOT NULL,
			confidence       DOUBLE PRECISION NOT NULL,
			top_source       TEXT,
			entry_json       JSONB NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create claim_cache table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Lookup fetches the entry for the normalized claim.
func (s *PostgresStore) Lookup(ctx context.Context, normalizedClaim string) (*model.CacheEntry, bool, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT entry_json FROM claim_cache WHERE normalized_claim = $1`,
		normalizedClaim,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup: %w", err)
	}

	var entry model.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// A corrupt row is a miss, not a request failure.
		return nil, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return &entry, true, nil
}

// Upsert inserts or fully replaces the entry for its claim.
func (s *PostgresStore) Upsert(ctx context.Context, entry *model.CacheEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO claim_cache (normalized_claim, verdict, confidence, top_source, entry_json, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		ON CONFLICT (normalized_claim) DO UPDATE SET
			verdict    = EXCLUDED.verdict,
			confidence = EXCLUDED.confidence,
			top_source = EXCLUDED.top_source,
			entry_json = EXCLUDED.entry_json,
			created_at = CURRENT_TIMESTAMP
	`, entry.NormalizedClaim, string(entry.Verdict), entry.Confidence, entry.TopSource, raw)
	if err != nil {
		return fmt.Errorf("cache upsert: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

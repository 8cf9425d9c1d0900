package cache

import (
	"context"
	"testing"
	"time"

	"github.com/mzelenkov/claimlens/internal/model"
)

func testEntry(claim string) *model.CacheEntry {
	return &model.CacheEntry{
		NormalizedClaim: claim,
		ClaimText:       claim,
		Verdict:         model.VerdictLikelyFalse,
		Confidence:      0.87,
		Explanation:     model.Explanation{Raw: "explanation text", Sources: []string{"https://a.example"}},
		CreatedAt:       time.Now().UTC(),
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	if _, found, err := store.Lookup(ctx, "the earth is flat"); err != nil || found {
		t.Fatalf("Expected clean miss, got found=%v err=%v", found, err)
	}

	entry := testEntry("the earth is flat")
	if err := store.Upsert(ctx, entry); err != nil {
		t.Fatalf("Expected no error on upsert, got %v", err)
	}

	got, found, err := store.Lookup(ctx, "the earth is flat")
	if err != nil || !found {
		t.Fatalf("Expected hit, got found=%v err=%v", found, err)
	}
	if got.Verdict != model.VerdictLikelyFalse || got.Confidence != 0.87 {
		t.Errorf("Expected stored verdict and confidence, got %s %f", got.Verdict, got.Confidence)
	}
	if got.Explanation.Raw != "explanation text" {
		t.Errorf("Expected explanation preserved, got %q", got.Explanation.Raw)
	}
}

func TestMemoryStore_UpsertReplaces(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	first := testEntry("claim")
	first.Confidence = 0.5
	second := testEntry("claim")
	second.Confidence = 0.9

	_ = store.Upsert(ctx, first)
	_ = store.Upsert(ctx, second)

	got, found, _ := store.Lookup(ctx, "claim")
	if !found || got.Confidence != 0.9 {
		t.Errorf("Expected last write to win, got found=%v confidence=%v", found, got)
	}
}

func TestMemoryStore_NoAliasing(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	entry := testEntry("claim")
	_ = store.Upsert(ctx, entry)

	// Mutating the caller's entry after upsert must not change the cache.
	entry.Confidence = 0.01

	got, _, _ := store.Lookup(ctx, "claim")
	if got.Confidence != 0.87 {
		t.Errorf("Expected cached entry isolated from caller mutation, got %f", got.Confidence)
	}
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemoryStore(20 * time.Millisecond)
	ctx := context.Background()

	_ = store.Upsert(ctx, testEntry("claim"))
	time.Sleep(50 * time.Millisecond)

	if _, found, _ := store.Lookup(ctx, "claim"); found {
		t.Error("Expected entry expired after TTL")
	}
}

func TestKey(t *testing.T) {
	a := Key("the earth is flat")
	b := Key("the earth is flat")
	c := Key("the earth is round")

	if a != b {
		t.Error("Expected deterministic keys")
	}
	if a == c {
		t.Error("Expected distinct keys for distinct claims")
	}
	if len(a) == 0 || a[:len("claimlens:v1:")] != "claimlens:v1:" {
		t.Errorf("Expected versioned key prefix, got %q", a)
	}
}

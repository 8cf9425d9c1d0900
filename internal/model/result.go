package model

import "time"

// Stance summarizes which side of the claim a source's evidence landed on.
type Stance string

const (
	StanceSupport Stance = "support"
	StanceRefute  Stance = "refute"
	StanceMixed   Stance = "mixed"
	StanceNeutral Stance = "neutral"
)

// SourceCard is one search result annotated with the evidence sentences
// that were drawn from it.
type SourceCard struct {
	ID                int      `json:"id"`
	Title             string   `json:"title"`
	URL               string   `json:"url"`
	Host              string   `json:"host"`
	Snippet           string   `json:"snippet,omitempty"`
	Stance            Stance   `json:"stance"`
	EvidenceSentences []string `json:"evidence_sentences,omitempty"`
}

// Result is the complete outcome of verifying one claim.
type Result struct {
	Claim       Claim           `json:"claim"`
	Verdict     Verdict         `json:"verdict"`
	Confidence  float64         `json:"confidence"`
	Explanation Explanation     `json:"explanation"`
	Sources     []SourceCard    `json:"sources"`
	Evidence    EvidenceBundle  `json:"evidence"`
	Heuristic   HeuristicSignal `json:"heuristic"`
	Cached      bool            `json:"cached"`
	Elapsed     time.Duration   `json:"elapsed"`
	Notes       []string        `json:"notes,omitempty"` // degradation notes, e.g. deep analysis unavailable
}

// CacheEntry is the persisted form of a verification result, keyed by the
// normalized claim. Entries are always replaced whole on re-verification.
type CacheEntry struct {
	NormalizedClaim string          `json:"normalized_claim"`
	ClaimText       string          `json:"claim_text"`
	Verdict         Verdict         `json:"verdict"`
	Confidence      float64         `json:"confidence"`
	Explanation     Explanation     `json:"explanation"`
	Evidence        EvidenceBundle  `json:"evidence"`
	Heuristic       HeuristicSignal `json:"heuristic"`
	TopSource       string          `json:"top_source,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Package rank selects the sentences most semantically relevant to a
// claim from the fetched pages, bounding downstream classifier cost to a
// small fixed K regardless of how much text was retrieved.
package rank

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/mzelenkov/claimlens/internal/model"
	"github.com/mzelenkov/claimlens/internal/nlp"
	"github.com/mzelenkov/claimlens/internal/textutil"
)

// Ranker embeds the claim and candidate sentences and keeps the top-K by
// cosine similarity.
type Ranker struct {
	embedder nlp.Embedder
	cfg      model.RankConfig
}

// NewRanker creates a ranker over the given embedder.
func NewRanker(embedder nlp.Embedder, cfg model.RankConfig) *Ranker {
	return &Ranker{embedder: embedder, cfg: cfg}
}

type candidate struct {
	sentence   string
	sourceURL  string
	sourceRank int
	similarity float64
}

// Rank returns at most TopK unlabeled evidence items, every one with
// similarity at or above the configured floor. Ties in similarity prefer
// the earlier (more relevant) search result. The claim is embedded once;
// all sentences go through the embedder in a single batch.
func (r *Ranker) Rank(ctx context.Context, claim string, pages []model.PageContent) ([]model.EvidenceItem, error) {
	var cands []candidate
	for _, page := range pages {
		sentences := textutil.SplitSentences(page.Text, r.cfg.MinSentenceLen, r.cfg.MaxSentenceLen, r.cfg.MaxSentences)
		for _, s := range sentences {
			cands = append(cands, candidate{sentence: s, sourceURL: page.URL, sourceRank: page.Rank})
		}
	}
	if len(cands) == 0 {
		return nil, nil
	}

	texts := make([]string, 0, len(cands)+1)
	texts = append(texts, claim)
	for _, c := range cands {
		texts = append(texts, c.sentence)
	}

	vectors, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embed: got %d vectors for %d texts", len(vectors), len(texts))
	}

	claimVec := vectors[0]
	for i := range cands {
		cands[i].similarity = clampUnit(Cosine(claimVec, vectors[i+1]))
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].similarity != cands[j].similarity {
			return cands[i].similarity > cands[j].similarity
		}
		return cands[i].sourceRank < cands[j].sourceRank
	})

	var items []model.EvidenceItem
	for _, c := range cands {
		if c.similarity < r.cfg.SimilarityFloor {
			break // sorted descending, nothing below the floor qualifies
		}
		items = append(items, model.EvidenceItem{
			SourceURL:  c.sourceURL,
			Sentence:   c.sentence,
			Similarity: c.similarity,
			SourceRank: c.sourceRank,
		})
		if len(items) >= r.cfg.TopK {
			break
		}
	}
	return items, nil
}

// Cosine computes cosine similarity between two vectors. Mismatched or
// zero-magnitude vectors score zero.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

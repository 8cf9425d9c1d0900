// Package pipeline orchestrates claim verification end to end: cache
// lookup, web retrieval, heuristic scoring, semantic ranking, entailment
// classification, verdict fusion, explanation building, polishing, and
// result persistence.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/mzelenkov/claimlens/internal/cache"
	"github.com/mzelenkov/claimlens/internal/explain"
	"github.com/mzelenkov/claimlens/internal/fetch"
	"github.com/mzelenkov/claimlens/internal/fuse"
	"github.com/mzelenkov/claimlens/internal/heuristics"
	"github.com/mzelenkov/claimlens/internal/model"
	"github.com/mzelenkov/claimlens/internal/nlp"
	"github.com/mzelenkov/claimlens/internal/rank"
	"github.com/mzelenkov/claimlens/internal/search"
	"github.com/mzelenkov/claimlens/internal/textutil"
	"github.com/mzelenkov/claimlens/internal/worker"
)

// minClaimChars rejects inputs too short to be a checkable claim.
const minClaimChars = 8

// PageFetcher retrieves one search result's cleaned page text.
// Absence (nil, false) is a normal outcome.
type PageFetcher interface {
	Fetch(ctx context.Context, result model.SearchResult) (*model.PageContent, bool)
}

// EvidenceRanker selects the sentences most relevant to the claim.
type EvidenceRanker interface {
	Rank(ctx context.Context, claim string, pages []model.PageContent) ([]model.EvidenceItem, error)
}

// ExplanationPolisher optionally rewrites an explanation for fluency.
type ExplanationPolisher interface {
	Polish(ctx context.Context, expl model.Explanation) model.Explanation
}

// Pipeline owns every transient entity of a verification request; only
// the cache entry outlives a call to Verify.
type Pipeline struct {
	searcher   search.Provider
	scorer     *heuristics.Scorer
	fetcher    PageFetcher
	ranker     EvidenceRanker
	classifier nlp.Classifier
	fuser      *fuse.Fuser
	builder    *explain.Builder
	polisher   ExplanationPolisher
	store      cache.Store
	cfg        *model.Config
}

// Components are the pluggable collaborators. Tests inject deterministic
// fakes here; New wires the real implementations.
type Components struct {
	Searcher   search.Provider
	Fetcher    PageFetcher
	Ranker     EvidenceRanker
	Classifier nlp.Classifier
	Polisher   ExplanationPolisher
	Store      cache.Store
}

// New builds a production pipeline from configuration.
func New(cfg *model.Config) (*Pipeline, error) {
	searcher, err := search.NewProvider(cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("search provider: %w", err)
	}

	backend, err := nlp.NewBackend(cfg.NLP)
	if err != nil {
		return nil, fmt.Errorf("nlp backend: %w", err)
	}

	store, err := cache.NewStore(cfg.Cache)
	if err != nil {
		// A broken cache backend must not block verification; run
		// uncached instead.
		log.Printf("Warning: cache unavailable, running without it: %v", err)
		store = nil
	}

	comps := Components{
		Searcher: searcher,
		Fetcher:  fetch.NewFetcher(cfg.HTTP, cfg.Verbose),
		Store:    store,
	}
	if backend != nil {
		comps.Ranker = rank.NewRanker(backend.Embedder, cfg.Rank)
		comps.Classifier = backend.Classifier
		comps.Polisher = explain.NewPolisher(backend.Rewriter, cfg.NLP, cfg.Verbose)
	} else {
		comps.Polisher = explain.NewPolisher(nil, cfg.NLP, cfg.Verbose)
	}

	return NewWithComponents(cfg, comps), nil
}

// NewWithComponents builds a pipeline around explicit collaborators.
func NewWithComponents(cfg *model.Config, c Components) *Pipeline {
	return &Pipeline{
		searcher:   c.Searcher,
		scorer:     heuristics.NewScorer(cfg.Heuristics),
		fetcher:    c.Fetcher,
		ranker:     c.Ranker,
		classifier: c.Classifier,
		fuser:      fuse.NewFuser(cfg.Fusion),
		builder:    explain.NewBuilder(),
		polisher:   c.Polisher,
		store:      c.Store,
		cfg:        cfg,
	}
}

// Close releases the cache backend. Safe on a pipeline without one.
func (p *Pipeline) Close() error {
	if p.store == nil {
		return nil
	}
	return p.store.Close()
}

// Verify runs the full pipeline for one claim with default options. The
// only errors returned are ErrInvalidClaim, ErrSearchUnavailable
// (wrapped), and ErrPipelineUnavailable; all other sub-failures degrade
// per stage.
func (p *Pipeline) Verify(ctx context.Context, claimText string) (*model.Result, error) {
	return p.VerifyWith(ctx, claimText, model.VerifyOptions{})
}

// VerifyWith runs the full pipeline for one claim, honoring per-request
// overrides from the transport layer.
func (p *Pipeline) VerifyWith(ctx context.Context, claimText string, opts model.VerifyOptions) (*model.Result, error) {
	start := time.Now()

	claim := model.NewClaim(claimText)
	if len(claim.Normalized) < minClaimChars {
		return nil, fmt.Errorf("%w: claim must be at least %d characters of content", ErrInvalidClaim, minClaimChars)
	}
	if opts.ImageMarker != "" {
		// Validity is judged on the caller's own text; the marker is
		// folded in only afterwards.
		claim = model.NewClaim(claim.Text + " " + opts.ImageMarker)
	}
	if p.searcher == nil {
		return nil, fmt.Errorf("%w: no search provider configured", ErrPipelineUnavailable)
	}

	if p.cfg.Concurrency.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Concurrency.RequestTimeout)
		defer cancel()
	}

	// 1. Cache first. A backend fault is a miss, never a request failure.
	if p.store != nil {
		entry, found, err := p.store.Lookup(ctx, claim.Normalized)
		if err != nil {
			p.logf("cache lookup degraded to miss: %v", err)
		}
		if found {
			return resultFromEntry(claim, entry, start), nil
		}
	}

	// 2. Retrieve candidate sources. Fatal when the provider fails;
	// empty results are a valid uncertain outcome.
	maxResults := p.cfg.Search.MaxResults
	if opts.MaxResults > 0 {
		maxResults = opts.MaxResults
	}
	results, err := p.searcher.Search(ctx, claim.Text, maxResults)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if len(results) == 0 {
		return p.finish(ctx, claim, results, model.HeuristicSignal{Verdict: model.VerdictMixedUncertain},
			model.EvidenceBundle{}, fuse.Outcome{Verdict: model.VerdictMixedUncertain}, nil, start), nil
	}

	// 3. Heuristic scoring needs only the search results, so it runs
	// while pages download.
	heurCh := make(chan model.HeuristicSignal, 1)
	go func() { heurCh <- p.scorer.Score(results) }()

	pages := p.fetchAll(ctx, results)
	heuristic := <-heurCh

	// 4. Deep analysis: rank then classify. Any failure here (including
	// an expired request deadline) degrades to the heuristic verdict.
	bundle, notes := p.analyze(ctx, claim, pages)

	// 5. Fuse the two signals.
	outcome := p.fuser.Fuse(heuristic, bundle)

	return p.finish(ctx, claim, results, heuristic, bundle, outcome, notes, start), nil
}

// fetchAll downloads pages with bounded concurrency. Per-URL failures are
// isolated; the surviving subset is returned in search-rank order.
func (p *Pipeline) fetchAll(ctx context.Context, results []model.SearchResult) []model.PageContent {
	pool := worker.NewPool(ctx, p.cfg.Concurrency.FetchWorkers)
	pool.Start()

	for _, r := range results {
		pool.Submit(&fetchJob{fetcher: p.fetcher, result: r})
	}

	var pages []model.PageContent
	for _, res := range pool.Wait() {
		fr := res.(*fetchResult)
		if fr.page != nil {
			pages = append(pages, *fr.page)
		}
	}

	// Completion order is arbitrary; restore rank order for determinism.
	for i := 1; i < len(pages); i++ {
		for j := i; j > 0 && pages[j-1].Rank > pages[j].Rank; j-- {
			pages[j-1], pages[j] = pages[j], pages[j-1]
		}
	}
	return pages
}

type fetchJob struct {
	fetcher PageFetcher
	result  model.SearchResult
}

func (j *fetchJob) Execute(ctx context.Context) worker.Result {
	page, ok := j.fetcher.Fetch(ctx, j.result)
	if !ok {
		return &fetchResult{}
	}
	return &fetchResult{page: page}
}

type fetchResult struct {
	page *model.PageContent
}

func (r *fetchResult) GetError() error { return nil }

const noteDeepAnalysis = "Deep analysis was unavailable; this verdict is based on search-result heuristics only."
const noteNoPages = "No source pages could be retrieved; this verdict is based on search-result heuristics only."

// analyze ranks sentences and classifies them, converting every failure
// into an empty bundle plus a degradation note.
func (p *Pipeline) analyze(ctx context.Context, claim model.Claim, pages []model.PageContent) (model.EvidenceBundle, []string) {
	if p.ranker == nil || p.classifier == nil {
		return model.EvidenceBundle{}, []string{noteDeepAnalysis}
	}
	if len(pages) == 0 {
		return model.EvidenceBundle{}, []string{noteNoPages}
	}

	items, err := p.ranker.Rank(ctx, claim.Text, pages)
	if err != nil {
		p.logf("rank degraded: %v", err)
		return model.EvidenceBundle{}, []string{noteDeepAnalysis}
	}
	if len(items) == 0 {
		return model.EvidenceBundle{}, nil
	}

	sentences := make([]string, len(items))
	for i, it := range items {
		sentences[i] = it.Sentence
	}

	labels, err := p.classifier.Classify(ctx, claim.Text, sentences)
	if err != nil || len(labels) != len(items) {
		p.logf("classify degraded: %v", err)
		return model.EvidenceBundle{}, []string{noteDeepAnalysis}
	}

	for i := range items {
		items[i].Label = labels[i].Label
		items[i].Confidence = labels[i].Confidence
		// Sub-threshold labels stay in the bundle as Neutral for
		// traceability but carry no weight in fusion.
		if labels[i].Confidence < p.cfg.Fusion.ConfidenceFloor {
			items[i].Label = model.LabelNeutral
		}
	}
	return model.EvidenceBundle{Items: items}, nil
}

// finish assembles the result, polishes the explanation, and persists the
// cache entry.
func (p *Pipeline) finish(ctx context.Context, claim model.Claim, results []model.SearchResult,
	heuristic model.HeuristicSignal, bundle model.EvidenceBundle, outcome fuse.Outcome,
	notes []string, start time.Time) *model.Result {

	var expl model.Explanation
	if len(results) == 0 {
		expl = p.builder.Insufficient(claim)
	} else {
		expl = p.builder.Build(claim, outcome.Verdict, bundle)
	}
	for _, note := range notes {
		expl.Raw += "\n\nNote: " + note
	}

	if p.polisher != nil {
		expl = p.polisher.Polish(ctx, expl)
	}

	result := &model.Result{
		Claim:       claim,
		Verdict:     outcome.Verdict,
		Confidence:  outcome.Confidence,
		Explanation: expl,
		Sources:     sourceCards(results, bundle),
		Evidence:    bundle,
		Heuristic:   heuristic,
		Elapsed:     time.Since(start),
		Notes:       notes,
	}

	if p.store != nil {
		entry := &model.CacheEntry{
			NormalizedClaim: claim.Normalized,
			ClaimText:       claim.Text,
			Verdict:         result.Verdict,
			Confidence:      result.Confidence,
			Explanation:     expl,
			Evidence:        bundle,
			Heuristic:       heuristic,
			CreatedAt:       time.Now().UTC(),
		}
		if len(results) > 0 {
			entry.TopSource = results[0].URL
		}
		if err := p.store.Upsert(ctx, entry); err != nil {
			p.logf("cache upsert failed: %v", err)
		}
	}
	return result
}

// sourceCards annotates each search result with the stance its evidence
// sentences took.
func sourceCards(results []model.SearchResult, bundle model.EvidenceBundle) []model.SourceCard {
	type sides struct {
		support []string
		refute  []string
	}
	perURL := make(map[string]*sides)
	for _, it := range bundle.Items {
		s := perURL[it.SourceURL]
		if s == nil {
			s = &sides{}
			perURL[it.SourceURL] = s
		}
		switch it.Label {
		case model.LabelEntailment:
			s.support = append(s.support, it.Sentence)
		case model.LabelContradiction:
			s.refute = append(s.refute, it.Sentence)
		}
	}

	cards := make([]model.SourceCard, 0, len(results))
	for i, r := range results {
		card := model.SourceCard{
			ID:      i + 1,
			Title:   textutil.Truncate(r.Title, 200),
			URL:     r.URL,
			Host:    hostOf(r.URL),
			Snippet: textutil.Truncate(r.Snippet, 400),
			Stance:  model.StanceNeutral,
		}
		if s := perURL[r.URL]; s != nil {
			switch {
			case len(s.support) > 0 && len(s.refute) > 0:
				card.Stance = model.StanceMixed
			case len(s.support) > 0:
				card.Stance = model.StanceSupport
			case len(s.refute) > 0:
				card.Stance = model.StanceRefute
			}
			lines := append(append([]string{}, s.support...), s.refute...)
			if len(lines) > 5 {
				lines = lines[:5]
			}
			card.EvidenceSentences = lines
		}
		cards = append(cards, card)
	}
	return cards
}

// resultFromEntry rehydrates a cached verdict without touching the
// network.
func resultFromEntry(claim model.Claim, entry *model.CacheEntry, start time.Time) *model.Result {
	var results []model.SearchResult
	if entry.TopSource != "" {
		results = []model.SearchResult{{URL: entry.TopSource, Title: "Cached top source"}}
	}
	return &model.Result{
		Claim:       claim,
		Verdict:     entry.Verdict,
		Confidence:  entry.Confidence,
		Explanation: entry.Explanation,
		Sources:     sourceCards(results, entry.Evidence),
		Evidence:    entry.Evidence,
		Heuristic:   entry.Heuristic,
		Cached:      true,
		Elapsed:     time.Since(start),
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.cfg.Verbose {
		log.Printf("[pipeline] "+format, args...)
	}
}

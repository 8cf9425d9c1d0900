// Package heuristics scores search-result titles and snippets lexically to
// produce a cheap preliminary verdict before any page is fetched or any
// model is invoked.
package heuristics

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/mzelenkov/claimlens/internal/model"
)

// Scorer matches a weighted keyword lexicon against search result text.
// The lexicon and thresholds come from configuration; the scorer itself
// holds no tunable state after construction.
type Scorer struct {
	supporting    []keyword
	refuting      []keyword
	negations     []string
	sourceWeights map[string]float64
	threshold     float64
}

type keyword struct {
	word   string
	weight float64
	re     *regexp.Regexp
}

// NewScorer compiles the lexicon into a scorer.
func NewScorer(cfg model.HeuristicsConfig) *Scorer {
	return &Scorer{
		supporting:    compile(cfg.Supporting),
		refuting:      compile(cfg.Refuting),
		negations:     cfg.Negations,
		sourceWeights: cfg.SourceWeights,
		threshold:     cfg.Threshold,
	}
}

func compile(lexicon map[string]float64) []keyword {
	out := make([]keyword, 0, len(lexicon))
	for word, weight := range lexicon {
		out = append(out, keyword{
			word:   word,
			weight: weight,
			re:     regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`),
		})
	}
	return out
}

// Score reads every result's title and snippet and produces the heuristic
// signal. It is deterministic, touches no network, and runs in
// O(len(results)).
func (s *Scorer) Score(results []model.SearchResult) model.HeuristicSignal {
	var support, refute float64

	for _, r := range results {
		text := strings.ToLower(r.Title + " " + r.Snippet)
		weight := s.hostWeight(r.URL)

		for _, kw := range s.supporting {
			n := len(kw.re.FindAllStringIndex(text, -1))
			if n == 0 {
				continue
			}
			// "not confirmed" supports the refuting side.
			if s.negated(text, kw.word) {
				refute += kw.weight * float64(n) * weight
			} else {
				support += kw.weight * float64(n) * weight
			}
		}
		for _, kw := range s.refuting {
			n := len(kw.re.FindAllStringIndex(text, -1))
			refute += kw.weight * float64(n) * weight
		}
	}

	total := support + refute
	if total == 0 {
		return model.HeuristicSignal{Verdict: model.VerdictMixedUncertain}
	}

	score := (support - refute) / total
	signal := model.HeuristicSignal{
		Score:      score,
		SupportPct: int(math.Round(support / total * 100)),
		RefutePct:  int(math.Round(refute / total * 100)),
	}

	switch {
	case score > s.threshold:
		signal.Verdict = model.VerdictLikelyTrue
	case score < -s.threshold:
		signal.Verdict = model.VerdictLikelyFalse
	default:
		signal.Verdict = model.VerdictMixedUncertain
	}
	return signal
}

func (s *Scorer) negated(text, word string) bool {
	for _, neg := range s.negations {
		if strings.Contains(text, fmt.Sprintf("%s %s", neg, word)) {
			return true
		}
	}
	return false
}

func (s *Scorer) hostWeight(rawURL string) float64 {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return 1.0
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	for domain, w := range s.sourceWeights {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return w
		}
	}
	return 1.0
}

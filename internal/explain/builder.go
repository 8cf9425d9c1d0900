// Package explain turns a classified evidence bundle into the cited,
// human-readable justification for a verdict.
package explain

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mzelenkov/claimlens/internal/model"
	"github.com/mzelenkov/claimlens/internal/textutil"
)

const maxSnippetLen = 260

// Builder assembles explanation text. Given the same bundle and verdict it
// always produces the same text; there is no randomness anywhere.
type Builder struct{}

// NewBuilder creates a builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build writes the raw explanation for a verdict. Supporting sentences are
// enumerated for LikelyTrue, contradicting ones for LikelyFalse, and both
// sides with a statement of conflict for MixedUncertain. Every sentence is
// attributed to its source.
func (b *Builder) Build(claim model.Claim, verdict model.Verdict, bundle model.EvidenceBundle) model.Explanation {
	supporting := bundle.Supporting()
	contradicting := bundle.Contradicting()

	if len(supporting) == 0 && len(contradicting) == 0 {
		return b.Insufficient(claim)
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("Claim: %s", claim.Text))
	lines = append(lines, "")

	var cited []model.EvidenceItem
	switch verdict {
	case model.VerdictLikelyTrue:
		lines = append(lines, "Evidence tends to support the claim. Relevant sources state:")
		lines = append(lines, quoteItems(supporting)...)
		cited = supporting
	case model.VerdictLikelyFalse:
		lines = append(lines, "Evidence strongly suggests the claim is false. Key sources state:")
		lines = append(lines, quoteItems(contradicting)...)
		cited = contradicting
	default:
		if len(supporting) > 0 {
			lines = append(lines, "Some sources support the claim:")
			lines = append(lines, quoteItems(supporting)...)
		}
		if len(contradicting) > 0 {
			lines = append(lines, "Other sources contradict it:")
			lines = append(lines, quoteItems(contradicting)...)
		}
		lines = append(lines, "")
		lines = append(lines, "The retrieved evidence is in genuine conflict, so the claim remains mixed and inconclusive.")
		cited = append(append([]model.EvidenceItem{}, supporting...), contradicting...)
	}

	return model.Explanation{
		Raw:     strings.Join(lines, "\n"),
		Sources: uniqueSources(cited),
	}
}

// Insufficient is the explanation used when no evidence survived
// retrieval and ranking, including the zero-search-results case.
func (b *Builder) Insufficient(claim model.Claim) model.Explanation {
	return model.Explanation{
		Raw: fmt.Sprintf(
			"Claim: %s\n\nThe retrieved sources contained no strong sentence-level support or refutation. "+
				"There is insufficient evidence to judge this claim with the current sources.",
			claim.Text),
	}
}

func quoteItems(items []model.EvidenceItem) []string {
	var lines []string
	for _, it := range items {
		snippet := textutil.Truncate(strings.TrimSpace(it.Sentence), maxSnippetLen)
		lines = append(lines, fmt.Sprintf("- %q (%s)", snippet, hostOf(it.SourceURL)))
	}
	return lines
}

// uniqueSources returns the cited URLs in first-citation order.
func uniqueSources(items []model.EvidenceItem) []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range items {
		if it.SourceURL == "" || seen[it.SourceURL] {
			continue
		}
		seen[it.SourceURL] = true
		out = append(out, it.SourceURL)
	}
	return out
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}

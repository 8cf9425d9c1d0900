package model

// SearchResult is one entry returned by the search provider.
// Rank is the 0-based relevance order as returned upstream.
type SearchResult struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Rank    int    `json:"rank"`
}

// PageContent is the cleaned body text of a fetched search result.
// A failed fetch simply produces no PageContent for that URL.
type PageContent struct {
	URL  string `json:"url"`
	Text string `json:"text"`
	Rank int    `json:"rank"` // rank of the originating search result
}

// Label is the entailment classifier's output for a (claim, sentence) pair.
type Label string

const (
	LabelEntailment    Label = "entailment"
	LabelContradiction Label = "contradiction"
	LabelNeutral       Label = "neutral"
)

// EvidenceItem is a classified sentence of evidence. Items are read-only
// once created: the ranker sets Similarity, the classifier sets Label and
// Confidence, and nothing mutates them afterward.
type EvidenceItem struct {
	SourceURL  string  `json:"source_url"`
	Sentence   string  `json:"sentence"`
	Similarity float64 `json:"similarity"` // cosine similarity to the claim, [0,1]
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"` // classifier confidence, [0,1]
	SourceRank int     `json:"source_rank"`
}

// EvidenceBundle is the ordered evidence collected for one claim.
// Neutral items are retained for traceability but carry no weight in
// verdict fusion.
type EvidenceBundle struct {
	Items []EvidenceItem `json:"items"`
}

// Supporting returns the items labeled Entailment, in bundle order.
func (b EvidenceBundle) Supporting() []EvidenceItem {
	return b.withLabel(LabelEntailment)
}

// Contradicting returns the items labeled Contradiction, in bundle order.
func (b EvidenceBundle) Contradicting() []EvidenceItem {
	return b.withLabel(LabelContradiction)
}

func (b EvidenceBundle) withLabel(label Label) []EvidenceItem {
	var out []EvidenceItem
	for _, it := range b.Items {
		if it.Label == label {
			out = append(out, it)
		}
	}
	return out
}

// SupportWeight is the summed confidence of supporting items.
func (b EvidenceBundle) SupportWeight() float64 {
	return b.weight(LabelEntailment)
}

// ContradictWeight is the summed confidence of contradicting items.
func (b EvidenceBundle) ContradictWeight() float64 {
	return b.weight(LabelContradiction)
}

func (b EvidenceBundle) weight(label Label) float64 {
	var w float64
	for _, it := range b.Items {
		if it.Label == label {
			w += it.Confidence
		}
	}
	return w
}

package model

// Verdict is the final three-way classification of a claim.
type Verdict string

const (
	VerdictLikelyTrue     Verdict = "likely_true"
	VerdictLikelyFalse    Verdict = "likely_false"
	VerdictMixedUncertain Verdict = "mixed_uncertain"
)

// Opposite flips LikelyTrue and LikelyFalse; MixedUncertain is its own
// opposite.
func (v Verdict) Opposite() Verdict {
	switch v {
	case VerdictLikelyTrue:
		return VerdictLikelyFalse
	case VerdictLikelyFalse:
		return VerdictLikelyTrue
	default:
		return VerdictMixedUncertain
	}
}

func (v Verdict) String() string {
	switch v {
	case VerdictLikelyTrue:
		return "Likely True"
	case VerdictLikelyFalse:
		return "Likely False"
	default:
		return "Mixed / Uncertain"
	}
}

// HeuristicSignal is the cheap lexical read on the search results,
// computed without any model or page fetch.
type HeuristicSignal struct {
	Score      float64 `json:"score"` // (support-refute)/(support+refute), [-1,1]
	Verdict    Verdict `json:"verdict"`
	SupportPct int     `json:"support_pct"`
	RefutePct  int     `json:"refute_pct"`
}

// Explanation is the user-facing justification for a verdict. Polished is
// optional: when empty, Raw is the text to serve.
type Explanation struct {
	Raw      string   `json:"raw"`
	Polished string   `json:"polished,omitempty"`
	Sources  []string `json:"sources"`
}

// Text returns the polished explanation when available, the raw one
// otherwise.
func (e Explanation) Text() string {
	if e.Polished != "" {
		return e.Polished
	}
	return e.Raw
}

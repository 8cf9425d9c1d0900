// Package fuse merges the lexical heuristic signal and the model-derived
// evidence bundle into one final verdict with a confidence. The fusion is
// deterministic: identical inputs always produce the identical verdict.
package fuse

import (
	"math"

	"github.com/mzelenkov/claimlens/internal/model"
)

// Fuser applies the fusion rules with thresholds fixed at construction.
type Fuser struct {
	cfg model.FusionConfig
}

// NewFuser creates a fuser.
func NewFuser(cfg model.FusionConfig) *Fuser {
	return &Fuser{cfg: cfg}
}

// Outcome is the fused decision. EvidenceDriven reports whether the
// verdict came from the entailment evidence or fell back to heuristics.
type Outcome struct {
	Verdict        model.Verdict
	Confidence     float64
	EvidenceDriven bool
}

// Fuse merges the two signals. The evidentiary floor check runs before
// any net computation: sparse evidence defers to the heuristic verdict
// under a low confidence cap, so weak evidence can never produce a
// confidently wrong verdict.
func (f *Fuser) Fuse(heuristic model.HeuristicSignal, bundle model.EvidenceBundle) Outcome {
	support := bundle.SupportWeight()
	contradict := bundle.ContradictWeight()
	total := support + contradict

	if total < f.cfg.EvidenceFloor {
		return Outcome{
			Verdict:    heuristic.Verdict,
			Confidence: clamp01(math.Min(math.Abs(heuristic.Score), f.cfg.HeuristicCap)),
		}
	}

	net := support - contradict
	var verdict model.Verdict
	switch {
	case net > f.cfg.Margin:
		verdict = model.VerdictLikelyTrue
	case net < -f.cfg.Margin:
		verdict = model.VerdictLikelyFalse
	default:
		verdict = model.VerdictMixedUncertain
	}

	// |net|/total is 1 for unanimous evidence and 0 for a dead heat.
	ratio := math.Abs(net) / total
	var confidence float64
	if verdict == model.VerdictMixedUncertain {
		// Balanced evidence: certainty about the conflict itself grows as
		// the sides even out.
		confidence = 0.5 * (1 - ratio)
	} else {
		confidence = 0.5 + 0.5*ratio
	}

	// Disagreement between the independent signals lowers certainty,
	// never raises it.
	if heuristic.Verdict != model.VerdictMixedUncertain && heuristic.Verdict != verdict {
		confidence -= f.cfg.DisagreementPenalty
	}

	return Outcome{
		Verdict:        verdict,
		Confidence:     clamp01(confidence),
		EvidenceDriven: true,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

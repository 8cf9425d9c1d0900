// Package nlp abstracts the model backends the pipeline depends on:
// sentence embedding, textual entailment classification, and explanation
// rewriting. Each capability is an interface with a single implementation
// injected at construction time, so tests substitute deterministic fakes.
package nlp

import (
	"context"
	"strings"

	"github.com/mzelenkov/claimlens/internal/model"
)

// Embedder converts texts into fixed-length vectors. Embeddings are
// deterministic for identical input.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// LabelScore is one entailment classification.
type LabelScore struct {
	Label      model.Label
	Confidence float64
}

// Classifier labels (claim, sentence) pairs as entailment, contradiction,
// or neutral. Classification is batched for throughput; per-item results
// do not depend on batch composition or order.
type Classifier interface {
	// Classify returns one LabelScore per sentence, in input order.
	Classify(ctx context.Context, claim string, sentences []string) ([]LabelScore, error)
}

// Rewriter rephrases text for fluency without changing factual content.
type Rewriter interface {
	Rewrite(ctx context.Context, text string) (string, error)
}

// ParseLabel maps free-form model output onto a Label, defaulting to
// Neutral for anything unrecognized.
func ParseLabel(s string) model.Label {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entailment", "entails", "support", "supports":
		return model.LabelEntailment
	case "contradiction", "contradicts", "refute", "refutes":
		return model.LabelContradiction
	default:
		return model.LabelNeutral
	}
}

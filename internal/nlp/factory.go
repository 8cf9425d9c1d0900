package nlp

import (
	"fmt"
	"strings"

	"github.com/mzelenkov/claimlens/internal/model"
)

// Backend bundles the three model capabilities one provider serves.
type Backend struct {
	Embedder   Embedder
	Classifier Classifier
	Rewriter   Rewriter
}

// NewBackend builds the configured model backend. An empty provider name
// disables deep analysis entirely: the pipeline then runs heuristic-only,
// which is a supported degraded mode, not an error.
func NewBackend(cfg model.NLPConfig) (*Backend, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		b, err := NewOpenAIBackend(cfg)
		if err != nil {
			return nil, err
		}
		backend := &Backend{Embedder: b, Classifier: b}
		// An empty rewrite model keeps the deterministic explanation text.
		if cfg.RewriteModel != "" {
			backend.Rewriter = b
		}
		return backend, nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown nlp provider: %s (supported: openai)", cfg.Provider)
	}
}

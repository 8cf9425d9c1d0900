package explain

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/mzelenkov/claimlens/internal/model"
	"github.com/mzelenkov/claimlens/internal/nlp"
)

// Polisher rewrites raw explanations for fluency. It is pure enhancement:
// any failure or timeout leaves Polished empty and the raw text serves.
type Polisher struct {
	rewriter nlp.Rewriter
	timeout  time.Duration
	minChars int
	verbose  bool
}

// NewPolisher creates a polisher. A nil rewriter produces a no-op
// polisher, which is the heuristic-only degraded mode.
func NewPolisher(rewriter nlp.Rewriter, cfg model.NLPConfig, verbose bool) *Polisher {
	timeout := cfg.PolishTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Polisher{
		rewriter: rewriter,
		timeout:  timeout,
		minChars: cfg.PolishMinChars,
		verbose:  verbose,
	}
}

// Polish attempts the rewrite and sets Polished on success. The source
// citations never pass through the rewrite model: they are appended to the
// polished text afterward, so no attribution can be dropped or invented.
func (p *Polisher) Polish(ctx context.Context, expl model.Explanation) model.Explanation {
	if p.rewriter == nil || len(expl.Raw) < p.minChars {
		return expl
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	polished, err := p.rewriter.Rewrite(ctx, expl.Raw)
	if err != nil {
		if p.verbose {
			log.Printf("[polish] rewrite failed, serving raw text: %v", err)
		}
		return expl
	}

	if len(expl.Sources) > 0 {
		var b strings.Builder
		b.WriteString(polished)
		b.WriteString("\n\nSources:")
		for _, src := range expl.Sources {
			b.WriteString("\n- ")
			b.WriteString(src)
		}
		polished = b.String()
	}

	expl.Polished = polished
	return expl
}

// Package search retrieves candidate source URLs for a claim from an
// external web search provider.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mzelenkov/claimlens/internal/model"
)

// ErrUnavailable reports that the upstream search API could not serve the
// query (network failure, quota, auth). There is no evidence without
// search, so callers treat this as fatal to the request.
var ErrUnavailable = errors.New("search provider unavailable")

// Provider returns ranked search results for a claim. Implementations cap
// the result count at max and preserve the upstream relevance order.
// An empty, nil-error result is a valid outcome, not a failure.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, max int) ([]model.SearchResult, error)
}

// NewProvider builds the provider named in the configuration.
func NewProvider(cfg model.SearchConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "google", "":
		if cfg.APIKey == "" || cfg.EngineID == "" {
			return nil, fmt.Errorf("google search requires api_key and engine_id")
		}
		return NewGoogleProvider(cfg), nil
	case "serper":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("serper search requires api_key")
		}
		return NewSerperProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown search provider: %s (supported: google, serper)", cfg.Provider)
	}
}

// clampMax bounds the requested result count to what providers accept.
func clampMax(max, def, hardCap int) int {
	if max <= 0 {
		max = def
	}
	if max > hardCap {
		max = hardCap
	}
	return max
}

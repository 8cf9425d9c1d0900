package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mzelenkov/claimlens/internal/model"
)

const googleEndpoint = "https://www.googleapis.com/customsearch/v1"

// GoogleProvider queries the Google Custom Search JSON API.
type GoogleProvider struct {
	apiKey     string
	engineID   string
	endpoint   string
	httpClient *http.Client
}

// NewGoogleProvider creates a Google CSE provider.
func NewGoogleProvider(cfg model.SearchConfig) *GoogleProvider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 12 * time.Second
	}
	return &GoogleProvider{
		apiKey:     cfg.APIKey,
		engineID:   cfg.EngineID,
		endpoint:   googleEndpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name.
func (p *GoogleProvider) Name() string { return "google" }

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Search runs the query and returns ranked results. Upstream failures wrap
// ErrUnavailable; an empty item list is returned as an empty slice.
func (p *GoogleProvider) Search(ctx context.Context, query string, max int) ([]model.SearchResult, error) {
	max = clampMax(max, 10, 10) // CSE serves at most 10 per call

	params := url.Values{}
	params.Set("key", p.apiKey)
	params.Set("cx", p.engineID)
	params.Set("q", query)
	params.Set("num", fmt.Sprintf("%d", max))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var body googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := body.Error.Message
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, msg)
	}

	results := make([]model.SearchResult, 0, len(body.Items))
	for i, item := range body.Items {
		if item.Link == "" {
			continue
		}
		results = append(results, model.SearchResult{
			URL:     item.Link,
			Title:   item.Title,
			Snippet: item.Snippet,
			Rank:    i,
		})
		if len(results) >= max {
			break
		}
	}
	return results, nil
}

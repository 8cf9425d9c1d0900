package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mzelenkov/claimlens/internal/model"
)

const serperEndpoint = "https://google.serper.dev/search"

// SerperProvider queries the Serper.dev search API.
type SerperProvider struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewSerperProvider creates a Serper provider.
func NewSerperProvider(cfg model.SearchConfig) *SerperProvider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 12 * time.Second
	}
	return &SerperProvider{
		apiKey:     cfg.APIKey,
		endpoint:   serperEndpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name.
func (p *SerperProvider) Name() string { return "serper" }

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num,omitempty"`
}

type serperResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type serperResponse struct {
	Organic []serperResult `json:"organic"`
	News    []serperResult `json:"news"`
}

// Search runs the query against Serper. Organic results come first, news
// entries after, preserving each section's order.
func (p *SerperProvider) Search(ctx context.Context, query string, max int) ([]model.SearchResult, error) {
	max = clampMax(max, 10, 20)

	payload, err := json.Marshal(serperRequest{Q: query, Num: max})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, bytes.TrimSpace(body))
	}

	var body serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	merged := append(body.Organic, body.News...)
	results := make([]model.SearchResult, 0, len(merged))
	for _, item := range merged {
		if item.Link == "" {
			continue
		}
		results = append(results, model.SearchResult{
			URL:     item.Link,
			Title:   item.Title,
			Snippet: item.Snippet,
			Rank:    len(results),
		})
		if len(results) >= max {
			break
		}
	}
	return results, nil
}

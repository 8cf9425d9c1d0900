// Package fetch retrieves web pages named by search results and reduces
// them to clean body text. A fetch that fails for any reason yields
// absence, never an error that could abort a verification.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/mzelenkov/claimlens/internal/model"
	"github.com/mzelenkov/claimlens/internal/util"
	"github.com/mzelenkov/claimlens/internal/worker"
)

const maxFetchAttempts = 3

// Overridable for fast tests.
var fetchSleepFunc = time.Sleep

// Fetcher downloads pages with a bounded timeout, robots.txt compliance,
// and per-domain rate limiting.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	minChars   int
	robots     *RobotsChecker
	limiter    *worker.Limiter
	verbose    bool
}

// NewFetcher builds a fetcher from the HTTP configuration.
func NewFetcher(cfg model.HTTPConfig, verbose bool) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		minChars:  cfg.MinPageChars,
		limiter:   worker.NewLimiter(cfg.RatePerHost, cfg.RateBurst),
		verbose:   verbose,
	}
	if cfg.RespectRobots {
		f.robots = NewRobotsChecker(cfg.UserAgent, cfg.Timeout)
	}
	return f
}

// Fetch downloads one search result's page and returns its cleaned text.
// The second return value reports presence: (nil, false) means the page is
// unavailable and the claim is evaluated without it.
func (f *Fetcher) Fetch(ctx context.Context, result model.SearchResult) (*model.PageContent, bool) {
	if f.robots != nil && !f.robots.CanFetch(ctx, result.URL) {
		f.logf("skip %s: disallowed by robots.txt", result.URL)
		return nil, false
	}

	if err := f.limiter.Wait(ctx, result.URL); err != nil {
		return nil, false
	}

	html, err := f.fetchWithRetry(ctx, result.URL)
	if err != nil {
		f.logf("skip %s: %v", result.URL, err)
		return nil, false
	}

	text := ExtractText(html)
	if len(text) < f.minChars {
		f.logf("skip %s: only %d chars of text", result.URL, len(text))
		return nil, false
	}

	return &model.PageContent{URL: result.URL, Text: text, Rank: result.Rank}, true
}

func (f *Fetcher) fetchWithRetry(ctx context.Context, rawURL string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		html, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return html, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) || ctx.Err() != nil {
			return "", err
		}
		if attempt < maxFetchAttempts {
			fetchSleepFunc(time.Duration(attempt) * 500 * time.Millisecond)
		}
	}
	return "", lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

// isRetryableFetchError reports whether a fetch failure is worth retrying:
// rate limiting, server errors, and transient connection faults.
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{
		"unexpected status: 429",
		"unexpected status: 5",
		"connection refused",
		"connection reset",
		"timeout",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func (f *Fetcher) logf(format string, args ...any) {
	if f.verbose {
		log.Printf("[fetch] "+format, args...)
	}
}

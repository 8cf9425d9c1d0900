package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mzelenkov/claimlens/internal/model"
)

// Verifier runs the full verification pipeline for one claim.
type Verifier interface {
	Verify(ctx context.Context, claim string) (*model.Result, error)
}

// ClaimJob verifies a single claim on the pool.
type ClaimJob struct {
	Claim    string
	Verifier Verifier
}

// Execute runs the verification.
func (j *ClaimJob) Execute(ctx context.Context) Result {
	result, err := j.Verifier.Verify(ctx, j.Claim)
	return &ClaimResult{Claim: j.Claim, Result: result, Err: err}
}

// ClaimResult is the outcome of one batched verification.
type ClaimResult struct {
	Claim  string
	Result *model.Result
	Err    error
}

// GetError returns the verification error, if any.
func (r *ClaimResult) GetError() error { return r.Err }

// BatchProcessor verifies many claims concurrently. Claims share nothing
// but the result cache, so they parallelize freely.
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(verifier Verifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{verifier: verifier, concurrency: concurrency}
}

// ProcessClaims verifies the claims with bounded concurrency and returns
// one result per claim, in completion order.
func (b *BatchProcessor) ProcessClaims(ctx context.Context, claims []string) []*ClaimResult {
	if len(claims) == 0 {
		return []*ClaimResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, claim := range claims {
		pool.Submit(&ClaimJob{Claim: claim, Verifier: b.verifier})
	}

	results := pool.Wait()
	out := make([]*ClaimResult, len(results))
	for i, r := range results {
		out[i] = r.(*ClaimResult)
	}
	return out
}

// ProcessFile reads claims from a file (one per line) and verifies them.
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*ClaimResult, error) {
	claims, err := ReadClaimsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}
	return b.ProcessClaims(ctx, claims), nil
}

// ReadClaimsFromFile reads one claim per line, skipping blanks and #
// comments. Claims that normalize to the same form are deduplicated; they
// would hit the same cache key anyway.
func ReadClaimsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var claims []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		norm := model.NormalizeClaim(line)
		if !seen[norm] {
			seen[norm] = true
			claims = append(claims, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return claims, nil
}

package pipeline

import (
	"errors"

	"github.com/mzelenkov/claimlens/internal/search"
)

// The only errors Verify surfaces to callers. Everything else (fetch
// failures, sub-threshold labels, polish timeouts, cache faults) degrades
// inside the pipeline and still yields a verdict.
var (
	// ErrInvalidClaim reports empty or too-short input.
	ErrInvalidClaim = errors.New("invalid claim")

	// ErrSearchUnavailable reports that the search provider failed. With
	// no search results there is no evidence and no verdict.
	ErrSearchUnavailable = search.ErrUnavailable

	// ErrPipelineUnavailable reports an unrecoverable internal fault.
	ErrPipelineUnavailable = errors.New("pipeline unavailable")
)

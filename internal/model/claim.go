package model

import (
	"strings"
	"unicode"
)

// Claim is the statement being verified. Text is the user's input as
// submitted; Normalized is the canonical form used as the cache key and
// for all downstream comparison.
type Claim struct {
	Text       string `json:"text"`
	Normalized string `json:"normalized"`
}

// VerifyOptions carries per-request overrides supplied by a transport
// layer (HTTP API, bot integration). The zero value means the configured
// defaults.
type VerifyOptions struct {
	// MaxResults overrides the configured search result count when
	// positive. Providers still clamp it to their own limits.
	MaxResults int

	// ImageMarker is a placeholder token for a non-text attachment sent
	// alongside the claim. It travels with the claim text so search and
	// the cache key see the same statement the caller sent.
	ImageMarker string
}

// NewClaim builds a Claim from raw user input.
func NewClaim(text string) Claim {
	return Claim{
		Text:       strings.TrimSpace(text),
		Normalized: NormalizeClaim(text),
	}
}

// NormalizeClaim lowercases, strips punctuation, and collapses whitespace.
// Normalization is deterministic and idempotent: normalizing an already
// normalized string returns it unchanged.
func NormalizeClaim(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			// Punctuation becomes a separator so "vaccines, microchips"
			// and "vaccines microchips" normalize identically.
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

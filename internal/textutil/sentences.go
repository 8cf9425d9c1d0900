// Package textutil holds small text-processing helpers shared by the
// fetcher and the semantic ranker.
package textutil

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	boundaryRe   = regexp.MustCompile(`(?:[.!?])\s+`)
)

// SplitSentences breaks cleaned page text into candidate evidence
// sentences. Sentences outside [minLen, maxLen] characters are dropped:
// fragments are useless to the classifier and very long runs are usually
// boilerplate or broken extraction. At most max sentences are returned.
func SplitSentences(text string, minLen, maxLen, max int) []string {
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if text == "" {
		return nil
	}

	// Keep the terminating punctuation with the sentence.
	var raw []string
	last := 0
	for _, loc := range boundaryRe.FindAllStringIndex(text, -1) {
		raw = append(raw, text[last:loc[0]+1])
		last = loc[1]
	}
	if last < len(text) {
		raw = append(raw, text[last:])
	}

	var out []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if len(s) < minLen || len(s) > maxLen {
			continue
		}
		out = append(out, s)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

// Truncate clips s to max characters, appending an ellipsis when clipped.
func Truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

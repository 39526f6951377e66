// Package token turns queries and text into ordered, de-duplicated,
// lowercase search terms.
package token

import (
	"errors"
	"strings"
	"unicode"
)

// ErrSegmenterUnavailable is returned by segmenters that could not be set up.
var ErrSegmenterUnavailable = errors.New("segmenter unavailable")

// Segmenter splits text into raw word units. Implementations need not
// lowercase or de-duplicate.
type Segmenter interface {
	Name() string
	Segment(text string) ([]string, error)
}

// FallbackFunc is notified when the primary segmenter fails and the run
// splitter is used instead.
type FallbackFunc func(segmenter string, err error)

// Tokenizer applies a primary Segmenter and degrades to the run splitter
// when the primary fails.
type Tokenizer struct {
	primary    Segmenter
	fallback   Segmenter
	onFallback FallbackFunc
}

// New creates a Tokenizer. A nil primary means the run splitter is used
// directly.
func New(primary Segmenter) *Tokenizer {
	return &Tokenizer{primary: primary, fallback: Runs{}}
}

// WithFallbackHook registers a callback for primary segmenter failures.
func (t *Tokenizer) WithFallbackHook(fn FallbackFunc) *Tokenizer {
	t.onFallback = fn
	return t
}

// Primary returns the name of the segmenter tried first.
func (t *Tokenizer) Primary() string {
	if t.primary == nil {
		return t.fallback.Name()
	}
	return t.primary.Name()
}

// Tokenize returns lowercase terms in first-seen order without duplicates.
func (t *Tokenizer) Tokenize(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}

	var parts []string
	if t.primary != nil {
		var err error
		parts, err = t.primary.Segment(text)
		if err != nil {
			if t.onFallback != nil {
				t.onFallback(t.primary.Name(), err)
			}
			parts = nil
		}
	}
	if parts == nil {
		parts, _ = t.fallback.Segment(text)
	}

	return normalize(parts)
}

// normalize lowercases, trims, drops units without letters or digits, and
// removes duplicates keeping the first occurrence.
func normalize(parts []string) []string {
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || !hasWordRune(p) {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// hasWordRune reports whether s holds a letter or digit. Bare separators
// such as "_" are not terms.
func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

package score

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/kailas-cloud/murmur/internal/domain/search/mode"
)

// DefaultRegexTimeout bounds a single regex evaluation against one haystack.
const DefaultRegexTimeout = 100 * time.Millisecond

// Tokenizer produces lowercase de-duplicated terms.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Query is a raw query prepared once per search: classified, lowercased,
// tokenized, and (in regex mode) compiled.
type Query struct {
	raw   string
	text  string
	lower string
	class mode.Classification
	terms []string
	re    *regexp2.Regexp
	reErr error
}

// Prepare classifies and pre-processes a raw query. It never fails: a
// pattern that does not compile is kept as RegexErr and scores zero.
func Prepare(raw string, tok Tokenizer, regexTimeout time.Duration) Query {
	q := Query{
		raw:   raw,
		text:  strings.TrimSpace(raw),
		class: mode.Classify(raw),
	}
	q.lower = strings.ToLower(q.text)

	if q.class.Mode == mode.Regex {
		opts := regexp2.RegexOptions(regexp2.ECMAScript)
		if q.class.CaseInsensitive() {
			opts |= regexp2.IgnoreCase
		}
		re, err := regexp2.Compile(q.class.Pattern, opts)
		if err != nil {
			q.reErr = fmt.Errorf("compile %q: %w", q.class.Pattern, err)
		} else {
			if regexTimeout <= 0 {
				regexTimeout = DefaultRegexTimeout
			}
			re.MatchTimeout = regexTimeout
			q.re = re
		}
		return q
	}

	if q.lower != "" && tok != nil {
		q.terms = tok.Tokenize(q.lower)
	}
	return q
}

// Raw returns the query as given.
func (q *Query) Raw() string { return q.raw }

// Text returns the trimmed query.
func (q *Query) Text() string { return q.text }

// Lower returns the trimmed, lowercased query.
func (q *Query) Lower() string { return q.lower }

// Mode returns the classified mode.
func (q *Query) Mode() mode.Mode { return q.class.Mode }

// Threshold returns the acceptance threshold for this query.
func (q *Query) Threshold() int { return q.class.Threshold }

// Terms returns the tokenized literal query (nil in regex mode).
func (q *Query) Terms() []string { return q.terms }

// RegexErr returns the compile error of a regex query, if any.
func (q *Query) RegexErr() error { return q.reErr }

// IsEmpty reports whether the trimmed query is empty.
func (q *Query) IsEmpty() bool { return q.text == "" }

// matchRegex reports whether the compiled pattern finds a match. Compile
// failures and timeouts count as no match.
func (q *Query) matchRegex(haystack string) bool {
	if q.re == nil {
		return false
	}
	ok, err := q.re.MatchString(haystack)
	return err == nil && ok
}

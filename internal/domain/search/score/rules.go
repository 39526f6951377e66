package score

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/murmur/internal/domain/search/item"
	"github.com/kailas-cloud/murmur/internal/domain/search/mode"
)

// Rule names, as reported in a Breakdown.
const (
	RuleRegexMatch         = "regex_match"
	RuleTagExact           = "tag_exact"
	RuleNamePrefix         = "name_prefix"
	RuleNameSubstring      = "name_substring"
	RuleHaystackSubstring  = "haystack_substring"
	RuleTermTagExact       = "term_tag_exact"
	RuleTermNamePrefix     = "term_name_prefix"
	RuleTermNameSubstring  = "term_name_substring"
	RuleTermHaystackSubstr = "term_haystack_substring"
)

// termBaseWeight is multiplied by the term length in runes.
const termBaseWeight = 8

// QueryRule awards fixed points when the whole query matches.
type QueryRule struct {
	Name    string
	Points  int
	Applies func(m mode.Mode) bool
	Match   func(q *Query, it *item.Item) bool
}

// TermRule awards base(term)+Bonus points per matching query term.
type TermRule struct {
	Name  string
	Bonus int
	Match func(term string, it *item.Item) bool
}

func onlyRegex(m mode.Mode) bool { return m == mode.Regex }

func anyLiteral(m mode.Mode) bool { return m != mode.Regex }

func longLiteral(m mode.Mode) bool { return m == mode.GeneralLiteral }

// DefaultQueryRules returns the whole-query rules in evaluation order.
func DefaultQueryRules() []QueryRule {
	return []QueryRule{
		{
			Name: RuleRegexMatch, Points: 90, Applies: onlyRegex,
			Match: func(q *Query, it *item.Item) bool { return q.matchRegex(it.Haystack()) },
		},
		{
			Name: RuleTagExact, Points: 120, Applies: anyLiteral,
			Match: func(q *Query, it *item.Item) bool { return hasTag(it, q.lower) },
		},
		{
			Name: RuleNamePrefix, Points: 90, Applies: anyLiteral,
			Match: func(q *Query, it *item.Item) bool {
				return strings.HasPrefix(strings.ToLower(it.Name()), q.lower)
			},
		},
		{
			Name: RuleNameSubstring, Points: 70, Applies: longLiteral,
			Match: func(q *Query, it *item.Item) bool {
				return strings.Contains(strings.ToLower(it.Name()), q.lower)
			},
		},
		{
			Name: RuleHaystackSubstring, Points: 110, Applies: longLiteral,
			Match: func(q *Query, it *item.Item) bool { return strings.Contains(it.Haystack(), q.lower) },
		},
	}
}

// DefaultTermRules returns the per-term rules in evaluation order. Exact tag
// beats name prefix beats name substring beats haystack substring.
func DefaultTermRules() []TermRule {
	return []TermRule{
		{
			Name: RuleTermTagExact, Bonus: 40,
			Match: func(t string, it *item.Item) bool { return hasTag(it, t) },
		},
		{
			Name: RuleTermNamePrefix, Bonus: 30,
			Match: func(t string, it *item.Item) bool { return strings.HasPrefix(strings.ToLower(it.Name()), t) },
		},
		{
			Name: RuleTermNameSubstring, Bonus: 20,
			Match: func(t string, it *item.Item) bool { return strings.Contains(strings.ToLower(it.Name()), t) },
		},
		{
			Name: RuleTermHaystackSubstr, Bonus: 16,
			Match: func(t string, it *item.Item) bool { return strings.Contains(it.Haystack(), t) },
		},
	}
}

// termBase is 8 points per rune, at least one rune.
func termBase(term string) int {
	n := utf8.RuneCountInString(term)
	if n < 1 {
		n = 1
	}
	return termBaseWeight * n
}

func hasTag(it *item.Item, lower string) bool {
	for _, tag := range it.Tags() {
		if strings.ToLower(tag) == lower {
			return true
		}
	}
	return false
}

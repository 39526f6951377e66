// Package score computes the relevance of one searchable item for one query
// as a sum of named, individually testable rules.
package score

import (
	"github.com/kailas-cloud/murmur/internal/domain/search/item"
	"github.com/kailas-cloud/murmur/internal/domain/search/mode"
)

// Contribution is one rule's share of a score.
type Contribution struct {
	Rule   string
	Term   string
	Points int
}

// Scorer evaluates query rules, then term rules for every query term.
type Scorer struct {
	queryRules []QueryRule
	termRules  []TermRule
}

// New creates a Scorer from explicit rule lists.
func New(queryRules []QueryRule, termRules []TermRule) *Scorer {
	return &Scorer{queryRules: queryRules, termRules: termRules}
}

// Default creates a Scorer with the standard weights.
func Default() *Scorer {
	return New(DefaultQueryRules(), DefaultTermRules())
}

// Score returns the total relevance, always >= 0. Empty queries score 0.
func (s *Scorer) Score(q *Query, it *item.Item) int {
	total := 0
	s.walk(q, it, func(c Contribution) { total += c.Points })
	return total
}

// Breakdown lists every contribution in evaluation order.
func (s *Scorer) Breakdown(q *Query, it *item.Item) []Contribution {
	var out []Contribution
	s.walk(q, it, func(c Contribution) { out = append(out, c) })
	return out
}

func (s *Scorer) walk(q *Query, it *item.Item, emit func(Contribution)) {
	if q.IsEmpty() {
		return
	}

	m := q.Mode()
	for _, r := range s.queryRules {
		if r.Applies != nil && !r.Applies(m) {
			continue
		}
		if r.Match(q, it) {
			emit(Contribution{Rule: r.Name, Points: r.Points})
		}
	}

	if m == mode.Regex {
		return
	}
	for _, term := range q.terms {
		base := termBase(term)
		for _, r := range s.termRules {
			if r.Match(term, it) {
				emit(Contribution{Rule: r.Name, Term: term, Points: base + r.Bonus})
			}
		}
	}
}

package search

import (
	"sort"

	"github.com/kailas-cloud/murmur/internal/domain/search/item"
	"github.com/kailas-cloud/murmur/internal/domain/search/result"
	"github.com/kailas-cloud/murmur/internal/domain/search/score"
)

// rank scores every item, keeps those at or above the query threshold, and
// orders them by score, then timestamp, both descending. Items equal in both
// keep their corpus order.
func rank(scorer *score.Scorer, q *score.Query, items []item.Item) []result.Result {
	return rankAbove(scorer, q, items, q.Threshold())
}

func rankAbove(scorer *score.Scorer, q *score.Query, items []item.Item, threshold int) []result.Result {
	results := make([]result.Result, 0, len(items))
	for i := range items {
		sc := scorer.Score(q, &items[i])
		if sc >= threshold {
			results = append(results, result.New(items[i], sc))
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score() != results[j].Score() {
			return results[i].Score() > results[j].Score()
		}
		return results[i].Timestamp().After(results[j].Timestamp())
	})

	return results
}

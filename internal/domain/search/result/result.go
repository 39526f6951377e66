package result

import (
	"time"

	"github.com/kailas-cloud/murmur/internal/domain/search/item"
)

// Result is a scored item. It lives only for the duration of one ranking.
type Result struct {
	item  item.Item
	score int
}

// New creates a search result.
func New(it item.Item, score int) Result {
	return Result{item: it, score: score}
}

// Item returns the scored item.
func (r *Result) Item() item.Item { return r.item }

// Score returns the relevance score.
func (r *Result) Score() int { return r.score }

// Timestamp returns the item timestamp used as the tie-break key.
func (r *Result) Timestamp() time.Time { return r.item.Timestamp() }

package result

import (
	"testing"
	"time"

	"github.com/kailas-cloud/murmur/internal/domain/search/item"
)

func TestNew(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	it := item.NewStatus("s.md", "coding", "text", ts)

	r := New(it, 158)

	if r.Score() != 158 {
		t.Errorf("Score() = %d", r.Score())
	}
	got := r.Item()
	if got.Filename() != "s.md" {
		t.Errorf("Item().Filename() = %q", got.Filename())
	}
	if !r.Timestamp().Equal(ts) {
		t.Errorf("Timestamp() = %v", r.Timestamp())
	}
}

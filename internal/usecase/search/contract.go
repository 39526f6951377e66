package search

import (
	"context"
	"time"

	"github.com/kailas-cloud/murmur/internal/domain/content"
)

// EntryLister lists the entries of one kind visible to the caller.
type EntryLister interface {
	List(ctx context.Context) ([]content.Entry, error)
}

// Recorder observes completed searches (metrics).
type Recorder interface {
	ObserveSearch(mode string, results int, duration time.Duration)
}

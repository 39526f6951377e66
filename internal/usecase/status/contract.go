package status

import (
	"context"

	"github.com/kailas-cloud/murmur/internal/domain/content"
)

// Repository defines the storage contract for statuses.
type Repository interface {
	List(ctx context.Context) ([]content.Entry, error)
	Get(ctx context.Context, id string) (content.Entry, error)
	Create(ctx context.Context, meta content.Meta, raw string) (content.Entry, error)
	Update(ctx context.Context, id string, meta content.Meta, raw string) (content.Entry, error)
	Delete(ctx context.Context, id string) error
}

// ViewLimit supplies the public view window, re-read on every call so
// configuration reloads apply immediately.
type ViewLimit interface {
	ViewTimeLimitDays() int
}

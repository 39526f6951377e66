package upload

import (
	"context"
	"io"

	domupload "github.com/kailas-cloud/murmur/internal/domain/upload"
)

// Backend stores uploaded media. Implementations return domain.ErrNotFound
// for missing objects.
type Backend interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, domupload.Info, error)
	Delete(ctx context.Context, name string) error
	Ping(ctx context.Context) error
}

package murmur

import "github.com/kailas-cloud/murmur/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound        = domain.ErrNotFound
	ErrInvalidFilename = domain.ErrInvalidFilename
)

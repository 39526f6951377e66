package upload

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/kailas-cloud/murmur/internal/domain"
	domupload "github.com/kailas-cloud/murmur/internal/domain/upload"
)

// Stored describes an accepted upload.
type Stored struct {
	Name        string
	URL         string
	Size        int64
	ContentType string
}

// Service validates and stores uploaded media.
type Service struct {
	backend    Backend
	maxSize    int64
	publicPath string
	now        func() time.Time
	random     io.Reader
}

// New creates an upload service. Files are served under publicPath.
func New(backend Backend, maxSize int64, publicPath string) *Service {
	return &Service{
		backend:    backend,
		maxSize:    maxSize,
		publicPath: publicPath,
		now:        time.Now,
	}
}

// MaxSize returns the per-file limit in bytes.
func (s *Service) MaxSize() int64 { return s.maxSize }

// PublicPath returns the URL prefix files are served under.
func (s *Service) PublicPath() string { return s.publicPath }

// Put stores r under a generated name derived from the original file name.
// size is the declared length, or -1 when unknown.
func (s *Service) Put(ctx context.Context, original string, size int64, r io.Reader) (Stored, error) {
	ext, err := domupload.Extension(original)
	if err != nil {
		return Stored{}, err
	}
	if s.maxSize > 0 && size > s.maxSize {
		return Stored{}, fmt.Errorf("%w: %d > %d bytes", domain.ErrUploadTooLarge, size, s.maxSize)
	}
	name, err := domupload.GenerateName(s.now(), ext, s.random)
	if err != nil {
		return Stored{}, err
	}
	ct, _ := domupload.ContentType(name)

	body := r
	if s.maxSize > 0 {
		body = &capReader{r: r, remaining: s.maxSize}
	}
	if err := s.backend.Put(ctx, name, body, size, ct); err != nil {
		return Stored{}, fmt.Errorf("store upload: %w", err)
	}

	stored := Stored{Name: name, URL: path.Join(s.publicPath, name), Size: size, ContentType: ct}
	if cr, ok := body.(*capReader); ok {
		stored.Size = cr.read
	}
	return stored, nil
}

// Open returns the stored object.
func (s *Service) Open(ctx context.Context, name string) (io.ReadCloser, domupload.Info, error) {
	if err := domupload.ValidateName(name); err != nil {
		return nil, domupload.Info{}, err
	}
	rc, info, err := s.backend.Open(ctx, name)
	if err != nil {
		return nil, domupload.Info{}, fmt.Errorf("open upload: %w", err)
	}
	if info.ContentType == "" {
		info.ContentType, _ = domupload.ContentType(name)
	}
	return rc, info, nil
}

// Delete removes a stored object.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := domupload.ValidateName(name); err != nil {
		return err
	}
	if err := s.backend.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}

// Ping checks the backend.
func (s *Service) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// capReader fails with ErrUploadTooLarge once more than remaining bytes are
// read, so undeclared sizes are still bounded.
type capReader struct {
	r         io.Reader
	remaining int64
	read      int64
}

func (c *capReader) Read(p []byte) (int, error) {
	if c.remaining < 0 {
		return 0, domain.ErrUploadTooLarge
	}
	if int64(len(p)) > c.remaining+1 {
		p = p[:c.remaining+1]
	}
	n, err := c.r.Read(p)
	c.read += int64(n)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		return n, domain.ErrUploadTooLarge
	}
	return n, err
}

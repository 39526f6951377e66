// Package upload provides media storage backends.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/murmur/internal/domain"
	domupload "github.com/kailas-cloud/murmur/internal/domain/upload"
)

// Local stores uploads in a directory.
type Local struct {
	dir string
}

// NewLocal creates a local backend rooted at dir.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Put writes r to name via a temp file so readers never see partial files.
func (l *Local) Put(ctx context.Context, name string, r io.Reader, _ int64, _ string) error {
	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r}); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(l.dir, name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// Open returns the file and its size.
func (l *Local) Open(_ context.Context, name string) (io.ReadCloser, domupload.Info, error) {
	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		return nil, domupload.Info{}, wrapNotExist(name, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, domupload.Info{}, fmt.Errorf("stat %s: %w", name, err)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, domupload.Info{}, fmt.Errorf("upload %s: %w", name, domain.ErrNotFound)
	}
	ct, _ := domupload.ContentType(name)
	return f, domupload.Info{Size: st.Size(), ContentType: ct, ModTime: st.ModTime()}, nil
}

// Delete removes the file.
func (l *Local) Delete(_ context.Context, name string) error {
	if err := os.Remove(filepath.Join(l.dir, name)); err != nil {
		return wrapNotExist(name, err)
	}
	return nil
}

// Ping checks the directory exists.
func (l *Local) Ping(_ context.Context) error {
	st, err := os.Stat(l.dir)
	if err != nil {
		return fmt.Errorf("stat upload dir: %w", err)
	}
	if !st.IsDir() {
		return fmt.Errorf("upload dir %s is not a directory", l.dir)
	}
	return nil
}

func wrapNotExist(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("upload %s: %w", name, domain.ErrNotFound)
	}
	return fmt.Errorf("upload %s: %w", name, err)
}

// ctxReader stops a copy once ctx is canceled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

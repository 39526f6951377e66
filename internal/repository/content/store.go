// Package content stores posts and statuses as Markdown files with YAML
// front matter, one directory per kind.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kailas-cloud/murmur/internal/domain"
	domcontent "github.com/kailas-cloud/murmur/internal/domain/content"
)

// Store implements the post and status repositories over a directory.
type Store struct {
	dir      string
	kind     domcontent.Kind
	renderer *Renderer
	now      func() time.Time

	// mu serializes writers so filename allocation cannot race.
	mu sync.Mutex
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string, kind domcontent.Kind, renderer *Renderer) (*Store, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}
	if renderer == nil {
		return nil, errors.New("renderer is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s dir: %w", kind, err)
	}
	return &Store{dir: dir, kind: kind, renderer: renderer, now: time.Now}, nil
}

// Kind returns the kind of entries held by the store.
func (s *Store) Kind() domcontent.Kind { return s.kind }

// Dir returns the backing directory.
func (s *Store) Dir() string { return s.dir }

// List reads every entry in the directory, ordered by filename.
// Files removed while listing are skipped.
func (s *Store) List(ctx context.Context) ([]domcontent.Entry, error) {
	names, err := s.filenames()
	if err != nil {
		return nil, err
	}

	entries := make([]domcontent.Entry, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := s.read(name)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Get returns a single entry by filename or id.
func (s *Store) Get(_ context.Context, idOrFilename string) (domcontent.Entry, error) {
	name, err := domcontent.NormalizeFilename(idOrFilename)
	if err != nil {
		return domcontent.Entry{}, err
	}
	return s.read(name)
}

// Create writes a new entry under the next free YYYY-MM-DD-N.md name for the
// entry's time (or the current time when it has none).
func (s *Store) Create(_ context.Context, meta domcontent.Meta, raw string) (domcontent.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at, ok := domcontent.TryParseTime(meta.Time)
	if !ok {
		at = s.now()
		if meta.Time == "" {
			meta.Time = domcontent.FormatTime(at)
		}
	}

	names, err := s.filenames()
	if err != nil {
		return domcontent.Entry{}, err
	}
	name := domcontent.NextFilename(at, names)
	if _, err := os.Stat(s.path(name)); err == nil {
		return domcontent.Entry{}, fmt.Errorf("%s %s: %w", s.kind, name, domain.ErrAlreadyExists)
	}

	if err := s.write(name, meta, raw); err != nil {
		return domcontent.Entry{}, err
	}
	return s.read(name)
}

// Update rewrites an existing entry.
func (s *Store) Update(
	_ context.Context, idOrFilename string, meta domcontent.Meta, raw string,
) (domcontent.Entry, error) {
	name, err := domcontent.NormalizeFilename(idOrFilename)
	if err != nil {
		return domcontent.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path(name)); err != nil {
		return domcontent.Entry{}, s.wrapStatErr(name, err)
	}
	if err := s.write(name, meta, raw); err != nil {
		return domcontent.Entry{}, err
	}
	return s.read(name)
}

// Delete removes an entry.
func (s *Store) Delete(_ context.Context, idOrFilename string) error {
	name, err := domcontent.NormalizeFilename(idOrFilename)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(name)); err != nil {
		return s.wrapStatErr(name, err)
	}
	return nil
}

// Ping checks the directory is readable.
func (s *Store) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat %s dir: %w", s.kind, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s dir %s is not a directory", s.kind, s.dir)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) wrapStatErr(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s %s: %w", s.kind, name, domain.ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w", s.kind, name, err)
}

// filenames lists valid entry filenames, sorted.
func (s *Store) filenames() ([]string, error) {
	dirents, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read %s dir: %w", s.kind, err)
	}
	names := make([]string, 0, len(dirents))
	for _, d := range dirents {
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			continue
		}
		name, err := domcontent.NormalizeFilename(d.Name())
		if err != nil || name != d.Name() {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) read(name string) (domcontent.Entry, error) {
	path := s.path(name)
	info, err := os.Stat(path)
	if err != nil {
		return domcontent.Entry{}, s.wrapStatErr(name, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domcontent.Entry{}, s.wrapStatErr(name, err)
	}

	meta, body := parseFile(data)
	html, err := s.renderer.renderFile(path, info.ModTime(), info.Size(), body)
	if err != nil {
		return domcontent.Entry{}, fmt.Errorf("%s %s: %w", s.kind, name, err)
	}
	return domcontent.New(s.kind, name, meta, body, html), nil
}

// write replaces the file atomically via a temp file in the same directory.
func (s *Store) write(name string, meta domcontent.Meta, raw string) error {
	data, err := encodeFile(s.kind, meta, raw)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", s.kind, name, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s %s: %w", s.kind, name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s %s: %w", s.kind, name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s %s: %w", s.kind, name, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s %s: %w", s.kind, name, err)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		return fmt.Errorf("rename %s %s: %w", s.kind, name, err)
	}
	return nil
}

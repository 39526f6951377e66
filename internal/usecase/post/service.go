package post

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/murmur/internal/domain"
	"github.com/kailas-cloud/murmur/internal/domain/content"
)

// CreateInput holds the fields of a new post. An empty Time means now.
type CreateInput struct {
	Content string
	Tags    []string
	Time    string
}

// UpdateInput holds a partial post update; nil fields are left unchanged.
type UpdateInput struct {
	Content *string
	Tags    *[]string
	Time    *string
}

// Service handles post reads and writes.
type Service struct {
	repo   Repository
	window ViewLimit
	now    func() time.Time
}

// New creates a post service. window may be nil to disable the view window.
func New(repo Repository, window ViewLimit) *Service {
	return &Service{repo: repo, window: window, now: time.Now}
}

// List returns the visible posts, newest first.
func (s *Service) List(ctx context.Context) ([]content.Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	entries = s.viewWindow().Filter(entries, s.now())
	content.SortNewestFirst(entries)
	return entries, nil
}

// Get returns a post by id. Posts outside the view window are not found.
func (s *Service) Get(ctx context.Context, id string) (content.Entry, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return content.Entry{}, fmt.Errorf("get post: %w", err)
	}
	if !s.viewWindow().Visible(&e, s.now()) {
		return content.Entry{}, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	return e, nil
}

// Create stores a new post.
func (s *Service) Create(ctx context.Context, in CreateInput) (content.Entry, error) {
	if strings.TrimSpace(in.Content) == "" {
		return content.Entry{}, domain.NewValidationError("content", "must not be empty")
	}
	meta := content.Meta{Tags: content.NormalizeTags(in.Tags)}
	if in.Time == "" {
		meta.Time = content.FormatTime(s.now())
	} else {
		ts, ok := content.NormalizeTime(in.Time)
		if !ok {
			return content.Entry{}, domain.NewValidationError("time", "unrecognised time format")
		}
		meta.Time = ts
	}

	e, err := s.repo.Create(ctx, meta, in.Content)
	if err != nil {
		return content.Entry{}, fmt.Errorf("create post: %w", err)
	}
	return e, nil
}

// Update applies a partial update. Unknown front-matter keys survive.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (content.Entry, error) {
	cur, err := s.repo.Get(ctx, id)
	if err != nil {
		return content.Entry{}, fmt.Errorf("get post: %w", err)
	}

	meta := cur.Meta()
	raw := cur.Raw()
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return content.Entry{}, domain.NewValidationError("content", "must not be empty")
		}
		raw = *in.Content
	}
	if in.Tags != nil {
		meta.Tags = content.NormalizeTags(*in.Tags)
	}
	if in.Time != nil {
		ts, ok := content.NormalizeTime(*in.Time)
		if !ok {
			return content.Entry{}, domain.NewValidationError("time", "unrecognised time format")
		}
		meta.Time = ts
	}

	e, err := s.repo.Update(ctx, cur.Filename(), meta, raw)
	if err != nil {
		return content.Entry{}, fmt.Errorf("update post: %w", err)
	}
	return e, nil
}

// Delete removes a post.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func (s *Service) viewWindow() content.Window {
	if s.window == nil {
		return content.Window{}
	}
	return content.WindowDays(s.window.ViewTimeLimitDays())
}

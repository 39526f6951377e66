package status

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/murmur/internal/domain"
	"github.com/kailas-cloud/murmur/internal/domain/content"
)

// CreateInput holds the fields of a new status. The body may be empty.
type CreateInput struct {
	Content    string
	Name       string
	Background string
}

// UpdateInput holds a partial status update; nil fields are left unchanged.
type UpdateInput struct {
	Content    *string
	Name       *string
	Background *string
}

// Service handles status reads and writes.
type Service struct {
	repo   Repository
	window ViewLimit
	now    func() time.Time
}

// New creates a status service. window may be nil to disable the view window.
func New(repo Repository, window ViewLimit) *Service {
	return &Service{repo: repo, window: window, now: time.Now}
}

// List returns the visible statuses, newest first.
func (s *Service) List(ctx context.Context) ([]content.Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	entries = s.viewWindow().Filter(entries, s.now())
	content.SortNewestFirst(entries)
	return entries, nil
}

// History returns the status timeline, newest first.
func (s *Service) History(ctx context.Context) ([]content.Entry, error) {
	return s.List(ctx)
}

// Current returns the most recent visible status.
func (s *Service) Current(ctx context.Context) (content.Entry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return content.Entry{}, err
	}
	if len(entries) == 0 {
		return content.Entry{}, fmt.Errorf("current status: %w", domain.ErrNotFound)
	}
	return entries[0], nil
}

// Get returns a status by id. Statuses outside the view window are not found.
func (s *Service) Get(ctx context.Context, id string) (content.Entry, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return content.Entry{}, fmt.Errorf("get status: %w", err)
	}
	if !s.viewWindow().Visible(&e, s.now()) {
		return content.Entry{}, fmt.Errorf("status %s: %w", id, domain.ErrNotFound)
	}
	return e, nil
}

// Create stores a new status stamped with the current time.
func (s *Service) Create(ctx context.Context, in CreateInput) (content.Entry, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return content.Entry{}, domain.NewValidationError("name", "must not be empty")
	}
	meta := content.Meta{
		Time:       content.FormatTime(s.now()),
		Name:       name,
		Background: strings.TrimSpace(in.Background),
	}

	e, err := s.repo.Create(ctx, meta, in.Content)
	if err != nil {
		return content.Entry{}, fmt.Errorf("create status: %w", err)
	}
	return e, nil
}

// Update applies a partial update. The original time is kept.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (content.Entry, error) {
	cur, err := s.repo.Get(ctx, id)
	if err != nil {
		return content.Entry{}, fmt.Errorf("get status: %w", err)
	}

	meta := cur.Meta()
	raw := cur.Raw()
	if in.Content != nil {
		raw = *in.Content
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return content.Entry{}, domain.NewValidationError("name", "must not be empty")
		}
		meta.Name = name
	}
	if in.Background != nil {
		meta.Background = strings.TrimSpace(*in.Background)
	}

	e, err := s.repo.Update(ctx, cur.Filename(), meta, raw)
	if err != nil {
		return content.Entry{}, fmt.Errorf("update status: %w", err)
	}
	return e, nil
}

// Delete removes a status.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete status: %w", err)
	}
	return nil
}

func (s *Service) viewWindow() content.Window {
	if s.window == nil {
		return content.Window{}
	}
	return content.WindowDays(s.window.ViewTimeLimitDays())
}

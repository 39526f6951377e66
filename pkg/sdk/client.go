package murmur

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/murmur/internal/domain/content"
	"github.com/kailas-cloud/murmur/internal/domain/search/token"
	contentrepo "github.com/kailas-cloud/murmur/internal/repository/content"
	"github.com/kailas-cloud/murmur/internal/segmenter"
	healthuc "github.com/kailas-cloud/murmur/internal/usecase/health"
	postuc "github.com/kailas-cloud/murmur/internal/usecase/post"
	searchuc "github.com/kailas-cloud/murmur/internal/usecase/search"
	statusuc "github.com/kailas-cloud/murmur/internal/usecase/status"
)

const defaultRenderCacheSize = 128

// Internal interfaces so tests can substitute the services.
type listUseCase interface {
	List(ctx context.Context) ([]content.Entry, error)
}

type statusUseCase interface {
	listUseCase
	Current(ctx context.Context) (content.Entry, error)
}

type searchUseCase interface {
	Search(ctx context.Context, query string, limit int) (searchuc.Response, error)
}

// Entry is a post or status.
type Entry struct {
	Type     string
	ID       string
	Filename string
	Time     time.Time
	Meta     map[string]any
	HTML     string
	Raw      string
}

// SearchResult holds ranked hits, best first.
type SearchResult struct {
	Query string
	Count int
	Items []Entry
}

// Client is the murmur SDK entry point.
type Client struct {
	postSvc   listUseCase
	statusSvc statusUseCase
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client over the configured content directories.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		segmenter:       segmenter.NameGSE,
		renderCacheSize: defaultRenderCacheSize,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.postsDir == "" || cfg.statusesDir == "" {
		return nil, errors.New("murmur: content directories required (use WithContentDirs)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	return wireClient(cfg, obs)
}

func wireClient(cfg *clientConfig, obs *observer) (*Client, error) {
	renderer, err := contentrepo.NewRenderer(cfg.renderCacheSize)
	if err != nil {
		return nil, fmt.Errorf("murmur: %w", err)
	}
	posts, err := contentrepo.New(cfg.postsDir, content.KindPost, renderer)
	if err != nil {
		return nil, fmt.Errorf("murmur: open posts: %w", err)
	}
	statuses, err := contentrepo.New(cfg.statusesDir, content.KindStatus, renderer)
	if err != nil {
		return nil, fmt.Errorf("murmur: open statuses: %w", err)
	}

	// The SDK logs through slog; the segmenter only reports load failures,
	// which surface later as fallbacks.
	primary, err := segmenter.Build(cfg.segmenter, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("murmur: %w", err)
	}
	tokenizer := token.New(primary).WithFallbackHook(obs.segmenterFallback)

	window := fixedWindow(cfg.viewTimeLimitDays)
	postSvc := postuc.New(posts, window)
	statusSvc := statusuc.New(statuses, window)
	searchSvc := searchuc.New(postSvc, statusSvc, tokenizer).WithRecorder(obs)

	return &Client{
		postSvc:   postSvc,
		statusSvc: statusSvc,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(posts, statuses, nil),
		obs:       obs,
	}, nil
}

// Search ranks posts and statuses for query. limit <= 0 returns every match.
func (c *Client) Search(ctx context.Context, query string, limit int) (res SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	resp, err := c.searchSvc.Search(ctx, query, limit)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return SearchResult{Query: query, Count: resp.Count, Items: fromEntries(resp.Hits)}, nil
}

// Posts returns the visible posts, newest first.
func (c *Client) Posts(ctx context.Context) (posts []Entry, err error) {
	start := time.Now()
	defer func() { c.obs.observe("posts", start, err) }()

	entries, err := c.postSvc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return fromEntries(entries), nil
}

// Statuses returns the visible statuses, newest first.
func (c *Client) Statuses(ctx context.Context) (statuses []Entry, err error) {
	start := time.Now()
	defer func() { c.obs.observe("statuses", start, err) }()

	entries, err := c.statusSvc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	return fromEntries(entries), nil
}

// CurrentStatus returns the latest status or ErrNotFound.
func (c *Client) CurrentStatus(ctx context.Context) (status Entry, err error) {
	start := time.Now()
	defer func() { c.obs.observe("current_status", start, err) }()

	e, err := c.statusSvc.Current(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("current status: %w", err)
	}
	return fromEntry(&e), nil
}

// Ping checks both content directories are readable.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	report := c.healthSvc.Check(ctx)
	if report.Status != healthuc.Healthy {
		return fmt.Errorf("ping: content store %s", report.Status)
	}
	return nil
}

type fixedWindow int

func (d fixedWindow) ViewTimeLimitDays() int { return int(d) }

func fromEntry(e *content.Entry) Entry {
	meta := e.Meta()
	return Entry{
		Type:     string(e.Kind()),
		ID:       e.ID(),
		Filename: e.Filename(),
		Time:     e.Timestamp(),
		Meta:     meta.Fields(e.Kind()),
		HTML:     e.HTML(),
		Raw:      e.Raw(),
	}
}

func fromEntries(entries []content.Entry) []Entry {
	out := make([]Entry, len(entries))
	for i := range entries {
		out[i] = fromEntry(&entries[i])
	}
	return out
}

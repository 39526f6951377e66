package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/murmur/internal/domain/content"
	"github.com/kailas-cloud/murmur/internal/domain/search/item"
	"github.com/kailas-cloud/murmur/internal/domain/search/score"
	logpkg "github.com/kailas-cloud/murmur/internal/logger"
)

// Response is the public search result: matching entries in rank order.
type Response struct {
	Count int
	Hits  []content.Entry
}

// Service ranks posts and statuses against free-text queries.
type Service struct {
	posts        EntryLister
	statuses     EntryLister
	tokenizer    score.Tokenizer
	scorer       *score.Scorer
	regexTimeout time.Duration
	recorder     Recorder
}

// New creates a search service.
func New(posts, statuses EntryLister, tokenizer score.Tokenizer) *Service {
	return &Service{
		posts:        posts,
		statuses:     statuses,
		tokenizer:    tokenizer,
		scorer:       score.Default(),
		regexTimeout: score.DefaultRegexTimeout,
	}
}

// WithRegexTimeout bounds each regex evaluation.
func (s *Service) WithRegexTimeout(d time.Duration) *Service {
	if d > 0 {
		s.regexTimeout = d
	}
	return s
}

// WithRecorder attaches a metrics recorder.
func (s *Service) WithRecorder(r Recorder) *Service {
	s.recorder = r
	return s
}

// Search reads the current corpus and returns entries scoring at or above
// the query threshold. limit <= 0 returns every match. Store failures are the
// only errors; query problems degrade silently.
func (s *Service) Search(ctx context.Context, query string, limit int) (Response, error) {
	start := time.Now()
	log := logpkg.FromContext(ctx)

	posts, statuses, err := s.load(ctx)
	if err != nil {
		return Response{}, err
	}

	q := score.Prepare(query, s.tokenizer, s.regexTimeout)
	if err := q.RegexErr(); err != nil {
		log.Warn("search regex rejected", zap.String("query", query), zap.Error(err))
	}

	entries := make(map[itemKey]content.Entry, len(posts)+len(statuses))
	items := make([]item.Item, 0, len(posts)+len(statuses))
	for _, group := range [][]content.Entry{posts, statuses} {
		for i := range group {
			e := group[i]
			it := item.FromEntry(&e)
			entries[itemKey{kind: e.Kind(), filename: e.Filename()}] = e
			items = append(items, it)
		}
	}

	ranked := rank(s.scorer, &q, items)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	hits := make([]content.Entry, 0, len(ranked))
	for _, r := range ranked {
		it := r.Item()
		hits = append(hits, entries[itemKey{kind: it.Kind(), filename: it.Filename()}])
	}

	dur := time.Since(start)
	if s.recorder != nil {
		s.recorder.ObserveSearch(string(q.Mode()), len(hits), dur)
	}
	log.Debug("search completed",
		zap.String("mode", string(q.Mode())),
		zap.Int("threshold", q.Threshold()),
		zap.Int("terms", len(q.Terms())),
		zap.Int("corpus", len(items)),
		zap.Int("results", len(hits)),
		zap.Duration("duration", dur),
	)

	return Response{Count: len(hits), Hits: hits}, nil
}

type itemKey struct {
	kind     content.Kind
	filename string
}

// load reads posts and statuses concurrently.
func (s *Service) load(ctx context.Context) (posts, statuses []content.Entry, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if posts, err = s.posts.List(gctx); err != nil {
			return fmt.Errorf("list posts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if statuses, err = s.statuses.List(gctx); err != nil {
			return fmt.Errorf("list statuses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return posts, statuses, nil
}

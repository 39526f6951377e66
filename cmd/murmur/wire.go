package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/murmur/internal/config"
	"github.com/kailas-cloud/murmur/internal/domain/content"
	"github.com/kailas-cloud/murmur/internal/domain/search/token"
	"github.com/kailas-cloud/murmur/internal/metrics"
	contentrepo "github.com/kailas-cloud/murmur/internal/repository/content"
	uploadrepo "github.com/kailas-cloud/murmur/internal/repository/upload"
	"github.com/kailas-cloud/murmur/internal/segmenter"
	postuc "github.com/kailas-cloud/murmur/internal/usecase/post"
	searchuc "github.com/kailas-cloud/murmur/internal/usecase/search"
	statusuc "github.com/kailas-cloud/murmur/internal/usecase/status"
	uploaduc "github.com/kailas-cloud/murmur/internal/usecase/upload"
)

// loadConfig reads the explicit path, or config/<env>.yaml. A missing
// per-env file yields the defaults so the CLI works in a bare directory.
func loadConfig(src cfgSource) (config.Config, string, error) {
	if src.path != "" {
		cfg, err := config.LoadFile(src.path)
		return cfg, src.path, err
	}
	path := config.Path(src.env)
	cfg, err := config.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Parse(nil)
		return cfg, "", err
	}
	return cfg, path, err
}

// contentStack is the read/write core shared by the server and the MCP tools.
type contentStack struct {
	posts     *contentrepo.Store
	statuses  *contentrepo.Store
	postSvc   *postuc.Service
	statusSvc *statusuc.Service
	searchSvc *searchuc.Service
}

func buildContent(cfg *config.Config, window postuc.ViewLimit, logger *zap.Logger) (*contentStack, error) {
	renderer, err := contentrepo.NewRenderer(cfg.Content.RenderCacheSize)
	if err != nil {
		return nil, err
	}
	posts, err := contentrepo.New(cfg.Content.PostsDir, content.KindPost, renderer)
	if err != nil {
		return nil, fmt.Errorf("open posts: %w", err)
	}
	statuses, err := contentrepo.New(cfg.Content.StatusesDir, content.KindStatus, renderer)
	if err != nil {
		return nil, fmt.Errorf("open statuses: %w", err)
	}

	primary, err := segmenter.Build(cfg.Search.Segmenter, logger)
	if err != nil {
		return nil, err
	}
	recorder := metrics.SearchRecorder{}
	tokenizer := token.New(primary).WithFallbackHook(recorder.SegmenterFallback)

	postSvc := postuc.New(posts, window)
	statusSvc := statusuc.New(statuses, window)
	searchSvc := searchuc.New(postSvc, statusSvc, tokenizer).
		WithRegexTimeout(time.Duration(cfg.Search.RegexTimeoutMs) * time.Millisecond).
		WithRecorder(recorder)

	return &contentStack{
		posts:     posts,
		statuses:  statuses,
		postSvc:   postSvc,
		statusSvc: statusSvc,
		searchSvc: searchSvc,
	}, nil
}

func buildUploads(ctx context.Context, cfg config.UploadsConfig) (*uploaduc.Service, error) {
	var backend uploaduc.Backend
	switch cfg.Driver {
	case "s3":
		s3, err := uploadrepo.NewS3(ctx, uploadrepo.S3Options{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			Prefix:          cfg.S3.Prefix,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("create s3 backend: %w", err)
		}
		backend = s3
	default:
		local, err := uploadrepo.NewLocal(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("create local backend: %w", err)
		}
		backend = local
	}
	return uploaduc.New(backend, int64(cfg.MaxSizeMB)<<20, cfg.PublicPath), nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/murmur/internal/config"
	logpkg "github.com/kailas-cloud/murmur/internal/logger"
	"github.com/kailas-cloud/murmur/internal/metrics"
	chiTransport "github.com/kailas-cloud/murmur/internal/transport/chi"
	healthuc "github.com/kailas-cloud/murmur/internal/usecase/health"
	"github.com/kailas-cloud/murmur/internal/version"
)

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configFlags(cmd))
		},
	}
}

func runServe(parent context.Context, src cfgSource) error {
	cfg, cfgPath, err := loadConfig(src)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(src.env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting murmur API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", src.env),
		zap.String("config", cfgPath),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("posts_dir", cfg.Content.PostsDir),
		zap.String("statuses_dir", cfg.Content.StatusesDir),
		zap.String("uploads_driver", cfg.Uploads.Driver),
		zap.String("segmenter", cfg.Search.Segmenter),
	)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	live := config.NewLive(cfg)
	stack, err := buildContent(&cfg, live, logger)
	if err != nil {
		return err
	}
	uploadSvc, err := buildUploads(ctx, cfg.Uploads)
	if err != nil {
		return err
	}
	healthSvc := healthuc.New(stack.posts, stack.statuses, uploadSvc)

	server := chiTransport.NewServer(
		stack.postSvc, stack.statusSvc, stack.searchSvc, uploadSvc, healthSvc, live, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	if cfgPath != "" {
		go func() {
			if err := config.Watch(ctx, cfgPath, live, config.DefaultDebounce, logger); err != nil {
				logger.Warn("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server stopped gracefully")
	return nil
}

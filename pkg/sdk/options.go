package murmur

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	postsDir    string
	statusesDir string

	segmenter         string
	viewTimeLimitDays int
	renderCacheSize   int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithContentDirs sets the post and status directories. Required.
func WithContentDirs(postsDir, statusesDir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.postsDir = postsDir
		c.statusesDir = statusesDir
	})
}

// WithSegmenter selects the word segmenter: "gse" (default) or "runs".
func WithSegmenter(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.segmenter = name
	})
}

// WithViewTimeLimit hides entries older than days. 0 shows everything (default).
func WithViewTimeLimit(days int) Option {
	return optionFunc(func(c *clientConfig) {
		c.viewTimeLimitDays = days
	})
}

// WithRenderCache sets the rendered-HTML cache size. Default: 128.
func WithRenderCache(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.renderCacheSize = size
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

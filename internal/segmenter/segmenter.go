// Package segmenter selects the word segmenter used for search terms.
package segmenter

import (
	"fmt"

	"github.com/go-ego/gse"
	"go.uber.org/zap"

	"github.com/kailas-cloud/murmur/internal/domain/search/token"
)

// Names accepted by Build.
const (
	NameGSE  = "gse"
	NameRuns = "runs"
)

// GSE segments mixed Latin/CJK text with a dictionary in search mode, which
// also emits the shorter words contained in long compounds.
type GSE struct {
	seg *gse.Segmenter
}

// NewGSE loads the embedded default dictionary.
func NewGSE() (*GSE, error) {
	seg := new(gse.Segmenter)
	if err := seg.LoadDictEmbed(); err != nil {
		return nil, fmt.Errorf("%w: load gse dictionary: %w", token.ErrSegmenterUnavailable, err)
	}
	return &GSE{seg: seg}, nil
}

// Name implements token.Segmenter.
func (g *GSE) Name() string { return NameGSE }

// Segment implements token.Segmenter. Panics inside the segmenter are
// reported as errors so the caller can fall back.
func (g *GSE) Segment(text string) (parts []string, err error) {
	if g == nil || g.seg == nil {
		return nil, token.ErrSegmenterUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			parts, err = nil, fmt.Errorf("gse segment: %v", r)
		}
	}()
	return g.seg.CutSearch(text, true), nil
}

// Build returns the segmenter configured by name. When the dictionary
// segmenter cannot be loaded it logs and returns nil, which makes the
// tokenizer use the run splitter alone.
func Build(name string, logger *zap.Logger) (token.Segmenter, error) {
	switch name {
	case "", NameGSE:
		g, err := NewGSE()
		if err != nil {
			logger.Warn("gse segmenter unavailable, using run splitter", zap.Error(err))
			return nil, nil
		}
		return g, nil
	case NameRuns:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown segmenter %q", name)
	}
}

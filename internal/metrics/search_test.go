package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSearchRecorder_ObserveSearch(t *testing.T) {
	var rec SearchRecorder
	before := testutil.ToFloat64(SearchQueriesTotal.WithLabelValues("regex"))

	rec.ObserveSearch("regex", 3, 5*time.Millisecond)

	if got := testutil.ToFloat64(SearchQueriesTotal.WithLabelValues("regex")) - before; got != 1 {
		t.Errorf("queries delta = %f, want 1", got)
	}
	if testutil.CollectAndCount(SearchResults) == 0 {
		t.Error("expected search_results observations")
	}
	if testutil.CollectAndCount(SearchDuration) == 0 {
		t.Error("expected search_duration_seconds observations")
	}
}

func TestSearchRecorder_SegmenterFallback(t *testing.T) {
	var rec SearchRecorder
	before := testutil.ToFloat64(SegmenterFallbacksTotal.WithLabelValues("gse"))

	rec.SegmenterFallback("gse", errors.New("boom"))
	rec.SegmenterFallback("gse", errors.New("boom"))

	if got := testutil.ToFloat64(SegmenterFallbacksTotal.WithLabelValues("gse")) - before; got != 2 {
		t.Errorf("fallbacks delta = %f, want 2", got)
	}
}

func TestRegisterSearchMetrics_Idempotent(t *testing.T) {
	RegisterSearchMetrics()
	RegisterSearchMetrics()
}

package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/murmur/internal/domain/content"
	"github.com/kailas-cloud/murmur/internal/domain/search/token"
)

// --- Mocks ---

type mockLister struct {
	entries []content.Entry
	err     error
	called  bool
}

func (m *mockLister) List(_ context.Context) ([]content.Entry, error) {
	m.called = true
	return m.entries, m.err
}

type mockRecorder struct {
	mode    string
	results int
	calls   int
}

func (m *mockRecorder) ObserveSearch(mode string, results int, _ time.Duration) {
	m.mode = mode
	m.results = results
	m.calls++
}

func post(filename, ts string, tags []string, html string) content.Entry {
	return content.New(content.KindPost, filename, content.Meta{Time: ts, Tags: tags}, "", html)
}

func status(filename, ts, name, html string) content.Entry {
	return content.New(content.KindStatus, filename, content.Meta{Time: ts, Name: name}, "", html)
}

func scenario() (*mockLister, *mockLister) {
	posts := &mockLister{entries: []content.Entry{
		post("2025-11-01-1.md", "2025-11-01 09:00:00", []string{"rust"}, "<p>learning systems programming</p>"),
	}}
	statuses := &mockLister{entries: []content.Entry{
		status("2025-11-02-1.md", "2025-11-02 09:00:00", "Alex", "<p>loves <em>rust</em> and go</p>"),
	}}
	return posts, statuses
}

// --- Tests ---

func TestSearch_RanksPostsAndStatuses(t *testing.T) {
	posts, statuses := scenario()
	rec := &mockRecorder{}
	svc := New(posts, statuses, token.New(nil)).WithRecorder(rec)

	resp, err := svc.Search(context.Background(), "rust", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !posts.called || !statuses.called {
		t.Error("both listers should be called")
	}
	if resp.Count != 2 || len(resp.Hits) != 2 {
		t.Fatalf("count = %d, hits = %d, want 2", resp.Count, len(resp.Hits))
	}
	if resp.Hits[0].Kind() != content.KindPost || resp.Hits[1].Kind() != content.KindStatus {
		t.Errorf("order = %s, %s; want post, status", resp.Hits[0].Kind(), resp.Hits[1].Kind())
	}
	if resp.Hits[1].HTML() != "<p>loves <em>rust</em> and go</p>" {
		t.Errorf("hit must carry the original rendered body, got %q", resp.Hits[1].HTML())
	}
	if rec.calls != 1 || rec.mode != "literal" || rec.results != 2 {
		t.Errorf("recorder = %+v", rec)
	}
}

func TestSearch_AnchoredRegexMatchesNothing(t *testing.T) {
	posts, statuses := scenario()
	resp, err := New(posts, statuses, token.New(nil)).Search(context.Background(), "/^loves/i", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Count != 0 {
		t.Errorf("count = %d, want 0", resp.Count)
	}
}

func TestSearch_MalformedRegexIsNotAnError(t *testing.T) {
	posts, statuses := scenario()
	resp, err := New(posts, statuses, token.New(nil)).Search(context.Background(), "/(rust/", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Count != 0 || resp.Hits == nil {
		t.Errorf("resp = %+v, want empty well-formed result", resp)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	posts, statuses := scenario()
	resp, err := New(posts, statuses, token.New(nil)).Search(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Count != 0 {
		t.Errorf("count = %d, want 0", resp.Count)
	}
}

func TestSearch_Limit(t *testing.T) {
	posts, statuses := scenario()
	resp, err := New(posts, statuses, token.New(nil)).Search(context.Background(), "rust", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Count != 1 || resp.Hits[0].Kind() != content.KindPost {
		t.Errorf("resp = %+v, want only the post", resp)
	}
}

func TestSearch_SameFilenameInBothKinds(t *testing.T) {
	posts := &mockLister{entries: []content.Entry{
		post("2025-11-01-1.md", "2025-11-01 09:00:00", nil, "<p>golang post</p>"),
	}}
	statuses := &mockLister{entries: []content.Entry{
		status("2025-11-01-1.md", "2025-11-03 09:00:00", "", "<p>golang status</p>"),
	}}
	resp, err := New(posts, statuses, token.New(nil)).Search(context.Background(), "golang", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2", resp.Count)
	}
	if resp.Hits[0].Kind() != content.KindStatus || resp.Hits[0].HTML() != "<p>golang status</p>" {
		t.Errorf("first hit = %s %q, want the newer status", resp.Hits[0].Kind(), resp.Hits[0].HTML())
	}
	if resp.Hits[1].HTML() != "<p>golang post</p>" {
		t.Errorf("second hit = %q, want the post", resp.Hits[1].HTML())
	}
}

func TestSearch_ListerError(t *testing.T) {
	posts, _ := scenario()
	statuses := &mockLister{err: errors.New("disk gone")}
	_, err := New(posts, statuses, token.New(nil)).Search(context.Background(), "rust", 0)
	if err == nil {
		t.Fatal("expected error from failing lister")
	}
}

package content

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/murmur/internal/domain"
)

func TestParseTime_Canonical(t *testing.T) {
	got := ParseTime("2025-11-15 10:30:00")
	want := time.Date(2025, 11, 15, 10, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("ParseTime = %v, want %v", got, want)
	}
}

func TestParseTime_SlashSeparated(t *testing.T) {
	got := ParseTime("2025/11/15 10:30:00")
	want := time.Date(2025, 11, 15, 10, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("ParseTime = %v, want %v", got, want)
	}
}

func TestParseTime_FallsBackToEpoch(t *testing.T) {
	for _, s := range []string{"", "   ", "not a date at all"} {
		if got := ParseTime(s); !got.Equal(Epoch) {
			t.Errorf("ParseTime(%q) = %v, want epoch", s, got)
		}
	}
}

func TestTryParseTime_ReportsFailure(t *testing.T) {
	if _, ok := TryParseTime("garbage"); ok {
		t.Error("expected ok=false for garbage")
	}
	if _, ok := TryParseTime("2024-01-02 03:04:05"); !ok {
		t.Error("expected ok=true for canonical time")
	}
}

func TestFormatTime_RoundTrip(t *testing.T) {
	ts := time.Date(2024, 2, 29, 23, 59, 58, 0, time.Local)
	if got := ParseTime(FormatTime(ts)); !got.Equal(ts) {
		t.Errorf("round trip = %v, want %v", got, ts)
	}
}

func TestNormalizeFilename(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2025-11-15-1", "2025-11-15-1.md", false},
		{"2025-11-15-1.md", "2025-11-15-1.md", false},
		{"note_a", "note_a.md", false},
		{"", "", true},
		{"../etc/passwd", "", true},
		{"a/b", "", true},
		{"a b", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeFilename(tt.in)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidFilename) {
					t.Fatalf("err = %v, want ErrInvalidFilename", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextFilename(t *testing.T) {
	day := time.Date(2025, 11, 15, 12, 0, 0, 0, time.Local)
	existing := []string{"2025-11-15-1.md", "2025-11-15-3.md", "2025-11-14-9.md", "custom.md"}
	if got := NextFilename(day, existing); got != "2025-11-15-4.md" {
		t.Errorf("NextFilename = %q, want 2025-11-15-4.md", got)
	}
	if got := NextFilename(day, nil); got != "2025-11-15-1.md" {
		t.Errorf("NextFilename(empty) = %q, want 2025-11-15-1.md", got)
	}
}

func TestMetaFields(t *testing.T) {
	m := Meta{Time: "2025-01-01 00:00:00", Name: "coding", Extra: map[string]any{"mood": "ok", "time": "shadowed"}}

	status := m.Fields(KindStatus)
	if status["time"] != "2025-01-01 00:00:00" {
		t.Errorf("time = %v", status["time"])
	}
	if status["name"] != "coding" || status["mood"] != "ok" {
		t.Errorf("status fields = %v", status)
	}
	if _, ok := status["tags"]; ok {
		t.Error("status fields must not carry tags")
	}

	post := m.Fields(KindPost)
	tags, ok := post["tags"].([]string)
	if !ok || tags == nil || len(tags) != 0 {
		t.Errorf("post tags = %#v, want empty slice", post["tags"])
	}
}

func TestEntry_CopiesMeta(t *testing.T) {
	meta := Meta{Tags: []string{"a"}}
	e := New(KindPost, "x.md", meta, "raw", "<p>raw</p>")
	meta.Tags[0] = "mutated"

	if got := e.Meta().Tags[0]; got != "a" {
		t.Errorf("entry tags changed via caller slice: %q", got)
	}
	if e.ID() != "x" {
		t.Errorf("ID = %q, want x", e.ID())
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" go ", "", "rust", "go", "  "})
	want := []string{"go", "rust"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeTags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if NormalizeTags(nil) == nil {
		t.Error("NormalizeTags(nil) should be an empty slice")
	}
}

func TestNormalizeTime(t *testing.T) {
	if got, ok := NormalizeTime("2025/11/15 10:30:00"); !ok || got != "2025-11-15 10:30:00" {
		t.Errorf("NormalizeTime = %q, %v", got, ok)
	}
	if _, ok := NormalizeTime("yesterday-ish"); ok {
		t.Error("expected failure for garbage")
	}
}

package content

import (
	"sort"
	"time"
)

// Window hides entries older than a cutoff from public reads.
// A zero or negative span disables it.
type Window struct {
	Span time.Duration
}

// WindowDays builds a window spanning the given number of days.
func WindowDays(days int) Window {
	return Window{Span: time.Duration(days) * 24 * time.Hour}
}

// Visible reports whether e may be shown at now. Entries whose time cannot be
// parsed are always visible.
func (w Window) Visible(e *Entry, now time.Time) bool {
	if w.Span <= 0 {
		return true
	}
	t, ok := TryParseTime(e.meta.Time)
	if !ok {
		return true
	}
	return !t.Before(now.Add(-w.Span))
}

// Filter returns the visible entries, preserving order.
func (w Window) Filter(entries []Entry, now time.Time) []Entry {
	out := make([]Entry, 0, len(entries))
	for i := range entries {
		if w.Visible(&entries[i], now) {
			out = append(out, entries[i])
		}
	}
	return out
}

// SortNewestFirst orders entries by time descending, then filename
// descending. Unparseable times sort last.
func SortNewestFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ti, tj := entries[i].Timestamp(), entries[j].Timestamp()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return entries[i].filename > entries[j].filename
	})
}

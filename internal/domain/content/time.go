package content

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// TimeLayout is the canonical front-matter time format.
const TimeLayout = "2006-01-02 15:04:05"

// Epoch is the timestamp assigned to entries whose time cannot be parsed,
// so they sort after everything else.
var Epoch = time.Unix(0, 0).UTC()

// ParseTime parses a front-matter time in local time. The canonical layout is
// tried first, then any format dateparse recognises. Unparseable or empty
// values yield Epoch.
func ParseTime(s string) time.Time {
	t, ok := TryParseTime(s)
	if !ok {
		return Epoch
	}
	return t
}

// TryParseTime is ParseTime that reports whether parsing succeeded.
func TryParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(TimeLayout, s, time.Local); err == nil {
		return t, true
	}
	// Slash-separated dates are common in hand-written files.
	if t, err := time.ParseInLocation("2006/01/02 15:04:05", s, time.Local); err == nil {
		return t, true
	}
	t, err := dateparse.ParseIn(s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatTime renders t in the canonical layout.
func FormatTime(t time.Time) string {
	return t.In(time.Local).Format(TimeLayout)
}

// NormalizeTime rewrites a user-supplied time in the canonical layout.
func NormalizeTime(s string) (string, bool) {
	t, ok := TryParseTime(s)
	if !ok {
		return "", false
	}
	return FormatTime(t), true
}

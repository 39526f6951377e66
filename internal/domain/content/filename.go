package content

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/murmur/internal/domain"
)

const ext = ".md"

var (
	idRegex       = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	sequenceRegex = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(\d+)\.md$`)
)

// IDFromFilename strips the .md suffix.
func IDFromFilename(filename string) string {
	return strings.TrimSuffix(filename, ext)
}

// NormalizeFilename accepts an id or a filename and returns the filename.
// IDs: ^[A-Za-z0-9_-]+$, 1-128 chars.
func NormalizeFilename(idOrFilename string) (string, error) {
	id := IDFromFilename(strings.TrimSpace(idOrFilename))
	if id == "" || len(id) > 128 || !idRegex.MatchString(id) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidFilename, idOrFilename)
	}
	return id + ext, nil
}

// Sequence extracts the date prefix and sequence number of a generated
// filename such as 2025-11-15-2.md.
func Sequence(filename string) (date string, seq int, ok bool) {
	m := sequenceRegex.FindStringSubmatch(filename)
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], n, true
}

// NextFilename returns the next free YYYY-MM-DD-N.md name for the date of t
// given the filenames already present.
func NextFilename(t time.Time, existing []string) string {
	date := t.In(time.Local).Format("2006-01-02")
	highest := 0
	for _, name := range existing {
		d, n, ok := Sequence(name)
		if ok && d == date && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s-%d%s", date, highest+1, ext)
}

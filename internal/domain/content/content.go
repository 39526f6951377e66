package content

import (
	"strings"
	"time"
)

// Kind discriminates posts from statuses. The two kinds live in separate
// filename namespaces.
type Kind string

// Content kinds.
const (
	KindPost   Kind = "post"
	KindStatus Kind = "status"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == KindPost || k == KindStatus
}

// Meta is the front-matter of an entry.
type Meta struct {
	Time       string
	Tags       []string
	Name       string
	Background string
	// Extra holds unknown front-matter keys so rewrites preserve them.
	Extra map[string]any
}

// Clone returns a deep copy of the metadata.
func (m Meta) Clone() Meta {
	out := Meta{Time: m.Time, Name: m.Name, Background: m.Background}
	if m.Tags != nil {
		out.Tags = append([]string(nil), m.Tags...)
	}
	if m.Extra != nil {
		out.Extra = make(map[string]any, len(m.Extra))
		for k, v := range m.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Fields flattens the metadata into a JSON-friendly map. Known keys win over
// extras with the same name.
func (m Meta) Fields(kind Kind) map[string]any {
	out := make(map[string]any, len(m.Extra)+3)
	for k, v := range m.Extra {
		out[k] = v
	}
	out["time"] = m.Time
	switch kind {
	case KindPost:
		tags := m.Tags
		if tags == nil {
			tags = []string{}
		}
		out["tags"] = tags
	case KindStatus:
		out["name"] = m.Name
		out["background"] = m.Background
	}
	return out
}

// Entry is a post or status as stored on disk (immutable value object).
type Entry struct {
	kind     Kind
	filename string
	meta     Meta
	raw      string
	html     string
}

// New creates an entry. Filename validation happens in the store.
func New(kind Kind, filename string, meta Meta, raw, html string) Entry {
	return Entry{kind: kind, filename: filename, meta: meta.Clone(), raw: raw, html: html}
}

// Kind returns the entry kind.
func (e *Entry) Kind() Kind { return e.kind }

// Filename returns the on-disk filename, e.g. 2025-11-15-1.md.
func (e *Entry) Filename() string { return e.filename }

// ID returns the filename without the .md suffix.
func (e *Entry) ID() string { return IDFromFilename(e.filename) }

// Meta returns a copy of the front-matter.
func (e *Entry) Meta() Meta { return e.meta.Clone() }

// Raw returns the Markdown body.
func (e *Entry) Raw() string { return e.raw }

// HTML returns the rendered body.
func (e *Entry) HTML() string { return e.html }

// Timestamp parses the entry time, falling back to the epoch.
func (e *Entry) Timestamp() time.Time { return ParseTime(e.meta.Time) }

// NormalizeTags trims tags and drops blanks and duplicates, keeping order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

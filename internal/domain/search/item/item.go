package item

import (
	"strings"
	"time"

	"github.com/kailas-cloud/murmur/internal/domain/content"
	"github.com/kailas-cloud/murmur/internal/domain/search/plaintext"
)

// Item is a searchable projection of a post or status.
type Item struct {
	kind      content.Kind
	filename  string
	name      string
	tags      []string
	plainText string
	timestamp time.Time
	haystack  string
}

// NewPost creates a post item. Posts have no name.
func NewPost(filename string, tags []string, plainText string, ts time.Time) Item {
	return build(content.KindPost, filename, "", tags, plainText, ts)
}

// NewStatus creates a status item. Statuses have no tags.
func NewStatus(filename, name, plainText string, ts time.Time) Item {
	return build(content.KindStatus, filename, name, nil, plainText, ts)
}

// FromEntry projects a stored entry, stripping markup from its rendered body.
func FromEntry(e *content.Entry) Item {
	meta := e.Meta()
	text := e.Raw()
	if html := e.HTML(); html != "" {
		text = plaintext.StripMarkup(html)
	}
	if e.Kind() == content.KindStatus {
		return NewStatus(e.Filename(), meta.Name, text, e.Timestamp())
	}
	return NewPost(e.Filename(), meta.Tags, text, e.Timestamp())
}

func build(kind content.Kind, filename, name string, tags []string, text string, ts time.Time) Item {
	if ts.IsZero() {
		ts = content.Epoch
	}
	tags = append([]string(nil), tags...)
	hay := strings.ToLower(name + " " + strings.Join(tags, " ") + " " + text)
	return Item{
		kind:      kind,
		filename:  filename,
		name:      name,
		tags:      tags,
		plainText: text,
		timestamp: ts,
		haystack:  hay,
	}
}

// Kind returns post or status.
func (i *Item) Kind() content.Kind { return i.kind }

// Filename returns the item id within its kind.
func (i *Item) Filename() string { return i.filename }

// Name returns the status display name, empty for posts.
func (i *Item) Name() string { return i.name }

// Tags returns the post tags, empty for statuses.
func (i *Item) Tags() []string { return i.tags }

// PlainText returns the markup-free body.
func (i *Item) PlainText() string { return i.plainText }

// Timestamp returns the parsed time or the epoch.
func (i *Item) Timestamp() time.Time { return i.timestamp }

// Haystack returns lowercase(name + " " + tags + " " + text).
func (i *Item) Haystack() string { return i.haystack }

package content

import (
	"bytes"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// fingerprint identifies one version of a file on disk.
type fingerprint struct {
	path    string
	modTime int64
	size    int64
}

// Renderer turns Markdown into HTML with GitHub-flavoured extensions.
// Results are cached per file version when a cache size is set.
type Renderer struct {
	md    goldmark.Markdown
	cache *lru.Cache[fingerprint, string]
}

// NewRenderer creates a renderer. cacheSize <= 0 disables caching.
func NewRenderer(cacheSize int) (*Renderer, error) {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
	if cacheSize > 0 {
		cache, err := lru.New[fingerprint, string](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("create render cache: %w", err)
		}
		r.cache = cache
	}
	return r, nil
}

// Render converts Markdown to HTML.
func (r *Renderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// renderFile renders the body of the file at path, reusing the cached HTML
// while the file's mtime and size are unchanged.
func (r *Renderer) renderFile(path string, modTime time.Time, size int64, body string) (string, error) {
	if r.cache == nil {
		return r.Render(body)
	}
	key := fingerprint{path: path, modTime: modTime.UnixNano(), size: size}
	if cached, ok := r.cache.Get(key); ok {
		return cached, nil
	}
	out, err := r.Render(body)
	if err != nil {
		return "", err
	}
	r.cache.Add(key, out)
	return out, nil
}

// Len reports the number of cached renders.
func (r *Renderer) Len() int {
	if r.cache == nil {
		return 0
	}
	return r.cache.Len()
}

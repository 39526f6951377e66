// Package upload holds the media naming and type rules.
package upload

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/kailas-cloud/murmur/internal/domain"
)

// Info describes a stored object.
type Info struct {
	Size        int64
	ContentType string
	ModTime     time.Time
}

// contentTypes lists the accepted extensions.
var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
	".svg":  "image/svg+xml",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".pdf":  "application/pdf",
	".txt":  "text/plain; charset=utf-8",
	".md":   "text/markdown; charset=utf-8",
}

var nameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*(\.[A-Za-z0-9]+)?$`)

// ContentType returns the MIME type for an accepted extension.
func ContentType(name string) (string, bool) {
	ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]
	return ct, ok
}

// Extension returns the lowercased extension of name if it is accepted.
func Extension(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := contentTypes[ext]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedUpload, ext)
	}
	return ext, nil
}

// GenerateName builds YYYYMMDD-HHMMSS-<8 hex>.<ext> from the upload time.
func GenerateName(at time.Time, ext string, random io.Reader) (string, error) {
	var b [4]byte
	if random == nil {
		random = rand.Reader
	}
	if _, err := io.ReadFull(random, b[:]); err != nil {
		return "", fmt.Errorf("generate upload name: %w", err)
	}
	return at.Format("20060102-150405") + "-" + hex.EncodeToString(b[:]) + ext, nil
}

// ValidateName rejects names that could escape the upload root.
func ValidateName(name string) error {
	if len(name) > 128 || !nameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidFilename, name)
	}
	return nil
}

package upload

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/murmur/internal/domain"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"photo.JPG", ".jpg", false},
		{"clip.webm", ".webm", false},
		{"doc.pdf", ".pdf", false},
		{"script.sh", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extension(tt.name)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrUnsupportedUpload) {
					t.Errorf("err = %v, want ErrUnsupportedUpload", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Extension = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestGenerateName(t *testing.T) {
	at := time.Date(2025, 11, 15, 9, 8, 7, 0, time.UTC)
	got, err := GenerateName(at, ".png", bytes.NewReader([]byte{0xde, 0xad, 0xbe, 0xef}))
	if err != nil {
		t.Fatal(err)
	}
	if got != "20251115-090807-deadbeef.png" {
		t.Errorf("GenerateName = %q", got)
	}
	if err := ValidateName(got); err != nil {
		t.Errorf("generated name rejected: %v", err)
	}
}

func TestGenerateName_ShortRandom(t *testing.T) {
	if _, err := GenerateName(time.Now(), ".png", bytes.NewReader([]byte{1})); err == nil {
		t.Error("expected error on short random source")
	}
}

func TestValidateName(t *testing.T) {
	for _, bad := range []string{"", "../x.png", "a/b.png", ".hidden", "a..png", "x.png/"} {
		if err := ValidateName(bad); !errors.Is(err, domain.ErrInvalidFilename) {
			t.Errorf("ValidateName(%q) = %v", bad, err)
		}
	}
	for _, good := range []string{"avatar.png", "20251115-090807-deadbeef.jpg", "notes"} {
		if err := ValidateName(good); err != nil {
			t.Errorf("ValidateName(%q) = %v", good, err)
		}
	}
}

func TestContentType(t *testing.T) {
	if ct, ok := ContentType("a.MP3"); !ok || ct != "audio/mpeg" {
		t.Errorf("ContentType = %q, %v", ct, ok)
	}
	if _, ok := ContentType("a.exe"); ok {
		t.Error("exe should not be accepted")
	}
}

package plaintext

import "testing"

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "no tags here", "no tags here"},
		{"paragraph", "<p>hello <strong>world</strong></p>", "hello world"},
		{"attributes", `<a href="https://x.y/?a=1&b=2">link</a>`, "link"},
		{"entities kept", "<p>a &amp; b</p>", "a &amp; b"},
		{"multiline tag", "<img\nsrc=\"x\">after", "after"},
		{"cjk", "<p>今天继续打磨前端</p>", "今天继续打磨前端"},
		{"unclosed", "a < b", "a < b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.in); got != tt.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

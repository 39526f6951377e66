package token

import "regexp"

var (
	asciiRunRegex = regexp.MustCompile(`[A-Za-z0-9_]+`)
	cjkRunRegex   = regexp.MustCompile(`[\x{4E00}-\x{9FFF}]+`)
)

// Runs splits text into maximal ASCII word runs followed by maximal CJK
// ideograph runs. It never fails.
type Runs struct{}

// Name implements Segmenter.
func (Runs) Name() string { return "runs" }

// Segment implements Segmenter. ASCII runs come first, then CJK runs, each in
// order of appearance.
func (Runs) Segment(text string) ([]string, error) {
	ascii := asciiRunRegex.FindAllString(text, -1)
	cjk := cjkRunRegex.FindAllString(text, -1)
	out := make([]string, 0, len(ascii)+len(cjk))
	out = append(out, ascii...)
	out = append(out, cjk...)
	return out, nil
}

// Package plaintext reduces rendered HTML to text suitable for scoring.
package plaintext

import "regexp"

var tagRegex = regexp.MustCompile(`<[^>]*>`)

// StripMarkup removes every <...> tag. Entities are left as-is.
func StripMarkup(rendered string) string {
	if rendered == "" {
		return rendered
	}
	return tagRegex.ReplaceAllString(rendered, "")
}

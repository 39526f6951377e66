package mode

import (
	"regexp"
	"strings"
)

// Mode is the query interpretation strategy.
type Mode string

// Query mode constants.
const (
	// Regex queries are written as /pattern/flags.
	Regex Mode = "regex"
	// ShortLiteral is a single ASCII character; substring signals are
	// suppressed and the threshold is raised.
	ShortLiteral   Mode = "short_literal"
	GeneralLiteral Mode = "literal"
)

// Acceptance thresholds per mode.
const (
	RegexThreshold          = 60
	ShortLiteralThreshold   = 80
	GeneralLiteralThreshold = 40
)

var regexQuery = regexp.MustCompile(`^\s*/(.+)/([a-zA-Z0-9]*)\s*$`)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Regex || m == ShortLiteral || m == GeneralLiteral
}

// Threshold returns the minimum score an item needs in this mode.
func (m Mode) Threshold() int {
	switch m {
	case Regex:
		return RegexThreshold
	case ShortLiteral:
		return ShortLiteralThreshold
	default:
		return GeneralLiteralThreshold
	}
}

// Classification is the outcome of classifying a raw query.
type Classification struct {
	Mode      Mode
	Threshold int
	// Pattern and Flags are set in Regex mode only.
	Pattern string
	Flags   string
}

// CaseInsensitive reports whether the i flag was given. Other flags are
// accepted and ignored.
func (c Classification) CaseInsensitive() bool {
	return strings.ContainsRune(c.Flags, 'i')
}

// Classify derives the mode and threshold from a raw query.
func Classify(query string) Classification {
	if m := regexQuery.FindStringSubmatch(query); m != nil {
		return Classification{Mode: Regex, Threshold: RegexThreshold, Pattern: m[1], Flags: m[2]}
	}

	q := strings.TrimSpace(query)
	if q != "" && len([]rune(q)) < 2 && isASCII(q) {
		return Classification{Mode: ShortLiteral, Threshold: ShortLiteralThreshold}
	}
	return Classification{Mode: GeneralLiteral, Threshold: GeneralLiteralThreshold}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}

package mode

import "testing"

func TestIsValid(t *testing.T) {
	valid := []Mode{Regex, ShortLiteral, GeneralLiteral}
	for _, m := range valid {
		if !m.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", m)
		}
	}

	invalid := []Mode{"", "fuzzy", "REGEX"}
	for _, m := range invalid {
		if m.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", m)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		query     string
		mode      Mode
		threshold int
		pattern   string
		flags     string
	}{
		{"/ab+c/i", Regex, 60, "ab+c", "i"},
		{"  /ab+c/  ", Regex, 60, "ab+c", ""},
		{"/a/b/gi", Regex, 60, "a/b", "gi"},
		{"/^loves/i", Regex, 60, "^loves", "i"},
		{"//", GeneralLiteral, 40, "", ""},
		{"/x/!", GeneralLiteral, 40, "", ""},
		{"a", ShortLiteral, 80, "", ""},
		{"I", ShortLiteral, 80, "", ""},
		{" a ", ShortLiteral, 80, "", ""},
		{"/", ShortLiteral, 80, "", ""},
		{"ab", GeneralLiteral, 40, "", ""},
		{"前", GeneralLiteral, 40, "", ""},
		{"é", GeneralLiteral, 40, "", ""},
		{"", GeneralLiteral, 40, "", ""},
		{"rust", GeneralLiteral, 40, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c := Classify(tt.query)
			if c.Mode != tt.mode {
				t.Errorf("mode = %q, want %q", c.Mode, tt.mode)
			}
			if c.Threshold != tt.threshold {
				t.Errorf("threshold = %d, want %d", c.Threshold, tt.threshold)
			}
			if c.Pattern != tt.pattern || c.Flags != tt.flags {
				t.Errorf("pattern/flags = %q/%q, want %q/%q", c.Pattern, c.Flags, tt.pattern, tt.flags)
			}
			if c.Threshold != c.Mode.Threshold() {
				t.Errorf("Threshold %d disagrees with Mode.Threshold %d", c.Threshold, c.Mode.Threshold())
			}
		})
	}
}

func TestCaseInsensitive(t *testing.T) {
	if !Classify("/x/i").CaseInsensitive() {
		t.Error("/x/i should be case-insensitive")
	}
	if !Classify("/x/gim").CaseInsensitive() {
		t.Error("/x/gim should be case-insensitive")
	}
	if Classify("/x/g").CaseInsensitive() {
		t.Error("/x/g should be case-sensitive")
	}
}

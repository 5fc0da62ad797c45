// Package classifier judges whether extracted tracking text carries any data.
package classifier

import (
	"strings"
	"unicode/utf8"
)

// MinLength is the trimmed length below which text is treated as empty.
const MinLength = 50

// NegativePhrases are lower-case phrases carrier sites show when a lookup fails.
var NegativePhrases = []string{
	"no information",
	"no records",
	"not found",
	"no tracking data",
	"no result",
	"invalid container",
	"please enter",
	"nothing found",
}

// IsMissing reports whether text looks like a negative or empty result.
// It works on visible text and raw markup alike. The verdict is advisory.
func IsMissing(text string) bool {
	lowered := strings.ToLower(text)
	for _, phrase := range NegativePhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return utf8.RuneCountInString(strings.TrimSpace(text)) < MinLength
}

// Package identifier finds shipping container numbers in free-form text.
package identifier

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"
)

// Prefixes lists the carrier owner codes recognised at the start of a
// container number.
var Prefixes = []string{"SINI", "HMMU", "MAEU", "MSKU", "TEMU", "TGHU", "OOLU"}

// ContainerID is a carrier prefix followed by 7 or 8 digits.
type ContainerID string

// String returns the identifier as plain text.
func (id ContainerID) String() string {
	return string(id)
}

// Tokenizer splits text into tokens in reading order.
type Tokenizer interface {
	Tokens(text string) []string
}

// WordTokenizer segments text on Unicode word boundaries (UAX #29).
// Letters followed by digits stay in one token, punctuation is split off.
//
// UAX #29 keeps "ID:SINI25432400" and "ref.SINI25432400" together, so
// segments are split again at every ':' and at a '.' between a lower case
// and an upper case letter. The separator becomes a token of its own.
type WordTokenizer struct{}

// Tokens returns every segment of text, including whitespace and punctuation.
func (WordTokenizer) Tokens(text string) []string {
	var out []string
	tokens := words.FromString(text)
	for tokens.Next() {
		out = splitJoined(out, tokens.Value())
	}
	return out
}

// splitJoined appends the parts of token to out.
func splitJoined(out []string, token string) []string {
	start := 0
	prev := utf8.RuneError
	for i := 0; i < len(token); {
		r, size := utf8.DecodeRuneInString(token[i:])
		if isJoiner(r, prev, token[i+size:]) {
			if i > start {
				out = append(out, token[start:i])
			}
			out = append(out, token[i:i+size])
			start = i + size
		}
		prev = r
		i += size
	}
	if start < len(token) {
		out = append(out, token[start:])
	}
	return out
}

func isJoiner(r, prev rune, rest string) bool {
	switch r {
	case ':':
		return true
	case '.':
		next, _ := utf8.DecodeRuneInString(rest)
		return unicode.IsLower(prev) && unicode.IsUpper(next)
	}
	return false
}

// Extractor scans tokens for the first container number.
type Extractor struct {
	tokenizer Tokenizer
	pattern   *regexp.Regexp
}

// NewExtractor creates an extractor. A nil tokenizer selects WordTokenizer.
func NewExtractor(tokenizer Tokenizer) *Extractor {
	if tokenizer == nil {
		tokenizer = WordTokenizer{}
	}
	return &Extractor{
		tokenizer: tokenizer,
		pattern:   regexp.MustCompile(`^(` + strings.Join(Prefixes, "|") + `)\d{7,8}`),
	}
}

// Extract returns the first token that starts with a container number.
// The match is anchored at the token start only, so trailing characters are
// dropped. No check digit is verified.
func (e *Extractor) Extract(text string) (ContainerID, bool) {
	for _, token := range e.tokenizer.Tokens(text) {
		if m := e.pattern.FindString(token); m != "" {
			return ContainerID(m), true
		}
	}
	return "", false
}

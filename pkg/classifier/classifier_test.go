package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMissing(t *testing.T) {
	long := strings.Repeat("Vessel HMM ALGECIRAS departed Busan 2024-05-01. ", 3)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", true},
		{"short without phrase", "Container SINI25432400 at port", true},
		{"whitespace padding does not count", "   " + strings.Repeat("x", 49) + "   ", true},
		{"exactly min length", strings.Repeat("x", MinLength), false},
		{"negative phrase in short text", "No records found for this container.", true},
		{"negative phrase in long text", long + " Nothing Found.", true},
		{"upper case phrase", long + " INVALID CONTAINER", true},
		{"phrase inside markup", "<html><body><p>" + long + "</p><div>No Result</div></body></html>", true},
		{"real data", long, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMissing(tt.text))
		})
	}
}

func TestIsMissing_EveryPhrase(t *testing.T) {
	filler := strings.Repeat("a", 200)
	for _, phrase := range NegativePhrases {
		assert.True(t, IsMissing(filler+" "+strings.ToUpper(phrase)+" "+filler), phrase)
	}
}

func TestIsMissing_CountsRunes(t *testing.T) {
	// 49 multi-byte runes is more than 50 bytes but still short
	assert.True(t, IsMissing(strings.Repeat("é", 49)))
	assert.False(t, IsMissing(strings.Repeat("é", 50)))
}

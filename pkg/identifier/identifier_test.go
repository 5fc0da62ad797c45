package identifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   ContainerID
		wantOK bool
	}{
		{
			name:   "booking id in sentence",
			input:  "Get tracking info for HMM booking ID SINI25432400",
			want:   "SINI25432400",
			wantOK: true,
		},
		{
			name:   "no prefix",
			input:  "track my shipment please",
			wantOK: false,
		},
		{
			name:   "seven digits",
			input:  "where is MSKU1234567 now",
			want:   "MSKU1234567",
			wantOK: true,
		},
		{
			name:   "greedy prefers eight digits",
			input:  "OOLU123456789",
			want:   "OOLU12345678",
			wantOK: true,
		},
		{
			name:   "trailing punctuation split off",
			input:  "Status of TGHU7654321?",
			want:   "TGHU7654321",
			wantOK: true,
		},
		{
			name:   "first match in token order wins",
			input:  "compare MAEU1111111 and HMMU2222222",
			want:   "MAEU1111111",
			wantOK: true,
		},
		{
			name:   "colon joined label",
			input:  "ID:SINI25432400",
			want:   "SINI25432400",
			wantOK: true,
		},
		{
			name:   "period joined label",
			input:  "ref.SINI25432400",
			want:   "SINI25432400",
			wantOK: true,
		},
		{
			name:   "too few digits",
			input:  "TEMU123456",
			wantOK: false,
		},
		{
			name:   "lower case prefix is not a match",
			input:  "sini25432400",
			wantOK: false,
		},
		{
			name:   "unknown prefix",
			input:  "ABCD1234567",
			wantOK: false,
		},
	}

	e := NewExtractor(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.Extract(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

type splitTokenizer struct{}

func (splitTokenizer) Tokens(text string) []string {
	return strings.Fields(text)
}

func TestExtractor_AnchorsAtTokenStart(t *testing.T) {
	e := NewExtractor(splitTokenizer{})

	_, ok := e.Extract("ID:SINI25432400")
	assert.False(t, ok, "a prefix in the middle of a token must not match")

	got, ok := e.Extract("SINI25432400abc")
	require.True(t, ok)
	assert.Equal(t, ContainerID("SINI25432400"), got)
}

func TestWordTokenizer_KeepsIdentifierTogether(t *testing.T) {
	tokens := WordTokenizer{}.Tokens("ID SINI25432400.")
	assert.Contains(t, tokens, "SINI25432400")
	assert.Contains(t, tokens, ".")
}

func TestWordTokenizer_SplitsJoinedLabels(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{input: "ID:SINI25432400", want: []string{"ID", ":", "SINI25432400"}},
		{input: "ref.SINI25432400", want: []string{"ref", ".", "SINI25432400"}},
		{input: "e.g. MSKU1234567", want: []string{"e.g", ".", " ", "MSKU1234567"}},
		{input: "REF.SINI25432400", want: []string{"REF.SINI25432400"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, WordTokenizer{}.Tokens(tt.input))
		})
	}
}

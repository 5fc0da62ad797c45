package carrier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/boxtrace/pkg/browser"
	"github.com/entrhq/boxtrace/pkg/identifier"
)

type stubHandler struct{ name string }

func (s stubHandler) Name() string { return s.name }

func (s stubHandler) Extract(context.Context, browser.Page, identifier.ContainerID) (string, error) {
	return s.name, nil
}

func TestRegistry_Match(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubHandler{"hmm"}, "*hmm21*"))
	require.NoError(t, r.Register(stubHandler{"maersk"}, "https://www.maersk.com/*", "*maerskline*"))

	tests := []struct {
		url      string
		wantName string
		wantOK   bool
	}{
		{"https://www.hmm21.com/e-service/general/trackNTrace/TrackNTrace.do", "hmm", true},
		{"http://hmm21.com", "hmm", true},
		{"https://www.maersk.com/tracking/MSKU1234567", "maersk", true},
		{"http://maerskline.example", "maersk", true},
		{"https://www.oocl.com/eng/ourservices/eservices/cargotracking", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			h, ok := r.Match(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantName, h.Name())
			}
		})
	}
}

func TestRegistry_FirstBindingWins(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubHandler{"first"}, "*track*"))
	require.NoError(t, r.Register(stubHandler{"second"}, "*tracking*"))

	h, ok := r.Match("https://carrier.example/tracking")
	require.True(t, ok)
	assert.Equal(t, "first", h.Name())
	assert.Equal(t, []string{"first", "second"}, r.Names())
}

func TestRegistry_RegisterErrors(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(stubHandler{"none"}))
	assert.Error(t, r.Register(stubHandler{"bad"}, "[unclosed"))
}

func TestBuild(t *testing.T) {
	r, err := Build([]Binding{{Name: "hmm", Match: []string{"*hmm21*"}}}, Timing{}, nil)
	require.NoError(t, err)

	h, ok := r.Match("https://www.hmm21.com/")
	require.True(t, ok)
	assert.Equal(t, "hmm", h.Name())

	_, err = Build([]Binding{{Name: "evergreen", Match: []string{"*"}}}, Timing{}, nil)
	assert.ErrorIs(t, err, ErrUnknownCarrier)
}

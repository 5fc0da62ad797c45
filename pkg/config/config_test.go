package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boxtrace.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://www.seacargotracking.net", cfg.EntryURL)
	assert.Equal(t, 6*time.Second, cfg.Timing.RedirectWait)
	assert.Equal(t, 10*time.Second, cfg.Timing.SettleWait)
	assert.Equal(t, 5*time.Second, cfg.Timing.PopupTimeout)
	require.Len(t, cfg.Carriers, 1)
	assert.Equal(t, "hmm", cfg.Carriers[0].Name)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
cache_file: state/cache.json
browser:
  headless: true
timing:
  redirect_wait: 2s
  link_timeout: 15s
logging:
  verbosity: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "state/cache.json", cfg.CacheFile)
	assert.Equal(t, "ai_decision_log.json", cfg.DecisionLogFile)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 30*time.Second, cfg.Browser.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Timing.RedirectWait)
	assert.Equal(t, 10*time.Second, cfg.Timing.SettleWait)
	assert.Equal(t, 15*time.Second, cfg.Timing.LinkTimeout)
	assert.Equal(t, "debug", cfg.Logging.Verbosity)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "entry_url: [", "failed to parse"},
		{"relative entry url", "entry_url: example.com", "absolute URL"},
		{"bad verbosity", "logging:\n  verbosity: loud", "invalid logging verbosity"},
		{"negative wait", "timing:\n  redirect_wait: -1s", "cannot be negative"},
		{"carrier without patterns", "carriers:\n  - name: hmm", "match pattern"},
		{"duplicate carrier", "carriers:\n  - name: hmm\n    match: ['*a*']\n  - name: hmm\n    match: ['*b*']", "duplicate"},
		{"tiny viewport", "browser:\n  viewport_width: 10", "viewport width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

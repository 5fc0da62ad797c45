package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/boxtrace/pkg/cache"
	"github.com/entrhq/boxtrace/pkg/config"
	"github.com/entrhq/boxtrace/pkg/logging"
	"github.com/entrhq/boxtrace/pkg/resolver"
)

func typeText(m tea.Model, text string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestPromptModel_Submit(t *testing.T) {
	var m tea.Model = newPromptModel()
	m = typeText(m, "  track SINI25432400 ")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	query, err := m.(promptModel).value()
	require.NoError(t, err)
	assert.Equal(t, "  track SINI25432400 ", query)
	assert.Empty(t, m.View())
}

func TestPromptModel_LongQueryIsNotTruncated(t *testing.T) {
	text := strings.Repeat("please check the latest status ", 20) + "SINI25432400  "
	require.Greater(t, len(text), 512)

	var m tea.Model = newPromptModel()
	m = typeText(m, text)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	query, err := m.(promptModel).value()
	require.NoError(t, err)
	assert.Equal(t, text, query)
	assert.True(t, strings.HasSuffix(query, "SINI25432400  "))
}

func TestPromptModel_Abort(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		var m tea.Model = newPromptModel()
		m = typeText(m, "SINI25432400")
		m, _ = m.Update(tea.KeyMsg{Type: key})

		_, err := m.(promptModel).value()
		assert.ErrorIs(t, err, errPromptAborted)
	}
}

func TestPromptModel_View(t *testing.T) {
	view := newPromptModel().View()
	assert.Contains(t, view, "Enter your tracking query")
	assert.Contains(t, view, "esc to quit")
}

func TestPrintResolution(t *testing.T) {
	t.Run("cache hit with missing data", func(t *testing.T) {
		var buf bytes.Buffer
		printResolution(&buf, &resolver.Resolution{
			Entry:     cache.Entry{ContainerNumber: "SINI25432400", Result: "No records found for this container."},
			FromCache: true,
			Missing:   true,
		}, false)

		out := buf.String()
		assert.Contains(t, out, "Found in cache")
		assert.Contains(t, out, "SINI25432400")
		assert.Contains(t, out, "No records found for this container.")
		assert.Contains(t, out, "missing or incomplete")
		assert.NotContains(t, out, "Flow:")
	})

	t.Run("markup result shows visible text", func(t *testing.T) {
		var buf bytes.Buffer
		printResolution(&buf, &resolver.Resolution{
			Entry:  cache.Entry{ContainerNumber: "SINI25432400", Result: "<html><body><p>Discharged at Busan</p></body></html>"},
			Action: "hmm_flow",
		}, false)

		out := buf.String()
		assert.Contains(t, out, "hmm_flow")
		assert.Contains(t, out, "Discharged at Busan")
		assert.NotContains(t, out, "<p>")
		assert.Contains(t, out, "extracted successfully")
	})
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "plain text", preview("plain text"))
	assert.Equal(t, "Discharged", preview("<div>Discharged</div>"))
}

func TestNewResolver_LogsWiring(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.CacheFile = filepath.Join(dir, "cache.json")
	cfg.DecisionLogFile = filepath.Join(dir, "ai_decision_log.json")

	var buf bytes.Buffer
	r, err := newResolver(cfg, logging.New("boxtrace", &buf))
	require.NoError(t, err)
	require.NotNil(t, r)

	out := buf.String()
	assert.Contains(t, out, "loaded 0 cached results from "+cfg.CacheFile)
	assert.Contains(t, out, "carrier handlers: hmm")
}

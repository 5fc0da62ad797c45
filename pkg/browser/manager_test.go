package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_StartSessionRequiresInitialize(t *testing.T) {
	manager := NewSessionManager()

	_, err := manager.StartSession(DefaultSessionName, SessionOptions{})
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Empty(t, manager.sessions)
}

func TestSessionManager_SessionLimit(t *testing.T) {
	manager := NewSessionManager()
	manager.maxSessions = 0

	_, err := manager.StartSession(DefaultSessionName, SessionOptions{})
	assert.ErrorIs(t, err, ErrSessionLimit)
}

func TestSessionManager_UnknownSession(t *testing.T) {
	manager := NewSessionManager()

	err := manager.CloseSession("missing")
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestSessionManager_ShutdownWithoutInitialize(t *testing.T) {
	assert.NoError(t, NewSessionManager().Shutdown())
}

func TestWithSessionDefaults(t *testing.T) {
	opts := withSessionDefaults(SessionOptions{Headless: true})
	require.NotNil(t, opts.Viewport)
	assert.Equal(t, DefaultViewportWidth, opts.Viewport.Width)
	assert.Equal(t, DefaultViewportHeight, opts.Viewport.Height)
	assert.Equal(t, DefaultTimeout, opts.Timeout)
	assert.True(t, opts.Headless)

	custom := withSessionDefaults(SessionOptions{Viewport: &Viewport{Width: 800, Height: 600}, Timeout: 5000})
	assert.Equal(t, 800, custom.Viewport.Width)
	assert.Equal(t, 5000.0, custom.Timeout)
}

func TestMilliseconds(t *testing.T) {
	assert.Nil(t, milliseconds(0))
	assert.Nil(t, milliseconds(-time.Second))

	ms := milliseconds(5 * time.Second)
	require.NotNil(t, ms)
	assert.Equal(t, 5000.0, *ms)
}

func TestButtonSelector(t *testing.T) {
	assert.Equal(t, `button:has-text("Close")`, buttonSelector("Close"))
	assert.Equal(t, `button:has-text("Retrieve")`, buttonSelector("Retrieve"))
}

func TestLauncher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	launcher := NewLauncher(NewSessionManager(), "http://example.invalid", SessionOptions{})
	_, err := launcher.Launch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, launcher.Close())
}

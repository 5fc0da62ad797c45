package browser

import (
	"context"
	"fmt"
)

// Launcher opens one browser session positioned at the lookup site's entry page.
type Launcher struct {
	manager  *SessionManager
	entryURL string
	opts     SessionOptions
}

// NewLauncher creates a launcher that opens entryURL with the given options.
func NewLauncher(manager *SessionManager, entryURL string, opts SessionOptions) *Launcher {
	return &Launcher{
		manager:  manager,
		entryURL: entryURL,
		opts:     opts,
	}
}

// Launch starts Playwright, opens a session and loads the entry page.
func (l *Launcher) Launch(ctx context.Context) (Window, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := l.manager.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	session, err := l.manager.StartSession(DefaultSessionName, l.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	if err := session.Open(l.entryURL, NavigateOptions{WaitUntil: "load"}); err != nil {
		_ = l.manager.CloseSession(DefaultSessionName)
		return nil, err
	}

	return session, nil
}

// Close shuts down every session and the Playwright driver.
func (l *Launcher) Close() error {
	return l.manager.Shutdown()
}

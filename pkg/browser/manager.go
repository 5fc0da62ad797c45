package browser

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"
)

var (
	// ErrNotInitialized is returned when a session is started before Initialize.
	ErrNotInitialized = errors.New("browser: session manager not initialized")

	// ErrSessionLimit is returned when every session slot is taken.
	ErrSessionLimit = errors.New("browser: maximum number of sessions reached")

	// ErrUnknownSession is returned for a session name that is not open.
	ErrUnknownSession = errors.New("browser: session not found")
)

// SessionManager owns the Playwright driver and the Chromium sessions launched
// through it. A resolution needs exactly one session; the limit guards against
// a second one being left behind by a failed launch.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	driver      *playwright.Playwright
	maxSessions int
}

// NewSessionManager creates a manager allowing DefaultMaxSessions sessions.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		maxSessions: DefaultMaxSessions,
	}
}

// driverOptions installs and runs Chromium only, with the download chatter
// kept off the terminal.
func driverOptions() *playwright.RunOptions {
	return &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
}

// Initialize installs the Chromium driver if needed and starts Playwright.
// Calling it again is a no-op.
func (m *SessionManager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.driver != nil {
		return nil
	}

	opts := driverOptions()
	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	driver, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.driver = driver
	return nil
}

// StartSession launches Chromium with a fresh context holding one blank page.
func (m *SessionManager) StartSession(name string, opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[name]; exists {
		return nil, fmt.Errorf("session %q already exists", name)
	}
	if len(m.sessions) >= m.maxSessions {
		return nil, fmt.Errorf("%w (%d)", ErrSessionLimit, m.maxSessions)
	}
	if m.driver == nil {
		return nil, ErrNotInitialized
	}

	opts = withSessionDefaults(opts)
	session, err := launch(m.driver, opts)
	if err != nil {
		return nil, err
	}
	session.Name = name

	m.sessions[name] = session
	return session, nil
}

// launch starts the browser, its context and the entry page, closing whatever
// was opened when a later step fails.
func launch(driver *playwright.Playwright, opts SessionOptions) (*Session, error) {
	chromium, err := driver.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := chromium.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	})
	if err != nil {
		_ = chromium.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	// Tabs opened later by redirects and link clicks inherit the timeout.
	bctx.SetDefaultTimeout(opts.Timeout)

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = chromium.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &Session{
		Browser:  chromium,
		Context:  bctx,
		Page:     page,
		Headless: opts.Headless,
	}, nil
}

// withSessionDefaults fills unset options.
func withSessionDefaults(opts SessionOptions) SessionOptions {
	if opts.Viewport == nil {
		opts.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	return opts
}

// CloseSession closes every tab of the named session and its browser.
func (m *SessionManager) CloseSession(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[name]
	if !exists {
		return fmt.Errorf("%w: %q", ErrUnknownSession, name)
	}
	session.close()
	delete(m.sessions, name)
	return nil
}

// Shutdown closes every session and stops Playwright.
func (m *SessionManager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, session := range m.sessions {
		session.close()
		delete(m.sessions, name)
	}

	if m.driver == nil {
		return nil
	}
	driver := m.driver
	m.driver = nil
	if err := driver.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

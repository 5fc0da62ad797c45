package browser

import (
	"github.com/playwright-community/playwright-go"
)

// Session is one Chromium instance with the single context a resolution runs in.
// Session implements Window.
type Session struct {
	Name string

	Browser playwright.Browser
	// Context holds every tab opened while resolving, including redirect tabs.
	Context playwright.BrowserContext
	// Page is the entry tab the lookup site is loaded into.
	Page playwright.Page

	Headless bool
}

// SessionOptions configures the browser launched for a session.
type SessionOptions struct {
	Headless bool
	// Viewport defaults to DefaultViewportWidth x DefaultViewportHeight.
	Viewport *Viewport
	// Timeout is the default for every browser operation, in milliseconds.
	Timeout float64
}

// Viewport is the size of the browser window in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// NavigateOptions configures Session.Open.
type NavigateOptions struct {
	// WaitUntil is "load", "domcontentloaded" or "networkidle".
	WaitUntil string
	// Timeout in milliseconds; zero uses the session default.
	Timeout float64
}

const (
	DefaultTimeout        = 30000.0
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultMaxSessions    = 1
	DefaultSessionName    = "tracking"
)

// Package browser provides the browsing capability the tracking engine drives.
//
// The engine only depends on the small interfaces in capability.go: a Window
// that lists the pages opened during a resolution, and Page/Scope values that
// can fill, click and read controls. The concrete implementation runs
// Chromium through Playwright.
//
// # Session Lifecycle
//
//  1. Initialize: SessionManager.Initialize installs and starts Playwright
//  2. Start: StartSession launches Chromium with a fresh context and page
//  3. Use: the navigation engine reads Window.Pages and drives Page values
//  4. Shutdown: closes every session and stops Playwright
//
// Launcher wraps these steps for a single resolution: it opens one session
// positioned at the lookup site's entry page and shuts everything down on Close.
//
// # Example Usage
//
//	launcher := browser.NewLauncher(browser.NewSessionManager(), "http://www.seacargotracking.net", browser.SessionOptions{
//	    Headless: false,
//	    Viewport: &browser.Viewport{Width: 1280, Height: 720},
//	})
//	window, err := launcher.Launch(ctx)
//	if err != nil {
//	    return err
//	}
//	defer launcher.Close()
//
//	text, err := window.Entry().Text()
package browser

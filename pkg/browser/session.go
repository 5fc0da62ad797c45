package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Open loads url in the session's entry page.
func (s *Session) Open(url string, opts NavigateOptions) error {
	gotoOpts := playwright.PageGotoOptions{}
	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		gotoOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		gotoOpts.Timeout = playwright.Float(opts.Timeout)
	}

	if _, err := s.Page.Goto(url, gotoOpts); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

// Entry returns the page the session was opened on.
func (s *Session) Entry() Page {
	return newPage(s.Page)
}

// Pages returns every tab of the session's context in creation order, so the
// newest tab is last.
func (s *Session) Pages() []Page {
	tabs := s.Context.Pages()
	pages := make([]Page, 0, len(tabs))
	for _, tab := range tabs {
		pages = append(pages, newPage(tab))
	}
	return pages
}

// close closes every tab of the context and then the browser. Errors are
// ignored; the browser process is gone either way.
func (s *Session) close() {
	if s.Context != nil {
		_ = s.Context.Close()
	}
	if s.Browser != nil {
		_ = s.Browser.Close()
	}
}

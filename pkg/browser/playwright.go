package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// document is the part of the Playwright API shared by pages and frames.
// Page and Frame take different option types, so each side is adapted
// with closures.
type document struct {
	locate           func(selector string) playwright.Locator
	querySelector    func(selector string) (playwright.ElementHandle, error)
	querySelectorAll func(selector string) ([]playwright.ElementHandle, error)
	innerText        func(selector string) (string, error)
	content          func() (string, error)
	waitForLoad      func() error
}

// pwPage adapts a Playwright page to Page.
type pwPage struct {
	document
	page playwright.Page
}

func newPage(p playwright.Page) *pwPage {
	return &pwPage{
		page: p,
		document: document{
			locate: func(selector string) playwright.Locator { return p.Locator(selector) },
			querySelector: func(selector string) (playwright.ElementHandle, error) {
				return p.QuerySelector(selector)
			},
			querySelectorAll: func(selector string) ([]playwright.ElementHandle, error) {
				return p.QuerySelectorAll(selector)
			},
			innerText:   func(selector string) (string, error) { return p.InnerText(selector) },
			content:     p.Content,
			waitForLoad: func() error { return p.WaitForLoadState() },
		},
	}
}

// newFrame adapts the content of a nested frame to Scope.
func newFrame(f playwright.Frame) *document {
	return &document{
		locate: func(selector string) playwright.Locator { return f.Locator(selector) },
		querySelector: func(selector string) (playwright.ElementHandle, error) {
			return f.QuerySelector(selector)
		},
		querySelectorAll: func(selector string) ([]playwright.ElementHandle, error) {
			return f.QuerySelectorAll(selector)
		},
		innerText:   func(selector string) (string, error) { return f.InnerText(selector) },
		content:     f.Content,
		waitForLoad: func() error { return f.WaitForLoadState() },
	}
}

// URL returns the current address of the page.
func (p *pwPage) URL() string {
	return p.page.URL()
}

// FollowLink waits for the anchor showing label, clicks it and returns the
// tab the click opened.
func (p *pwPage) FollowLink(label string, timeout time.Duration) (Page, error) {
	link := p.page.Locator(fmt.Sprintf("a:has-text(%q)", label)).First()

	if err := link.WaitFor(playwright.LocatorWaitForOptions{Timeout: milliseconds(timeout)}); err != nil {
		return nil, fmt.Errorf("%w: link %q: %v", ErrNotFound, label, err)
	}

	opened, err := p.page.Context().ExpectPage(func() error {
		return link.Click()
	}, playwright.BrowserContextExpectPageOptions{Timeout: milliseconds(timeout)})
	if err != nil {
		return nil, fmt.Errorf("link %q did not open a page: %w", label, err)
	}
	return newPage(opened), nil
}

// Controls returns the input elements in document order.
func (d *document) Controls() ([]Control, error) {
	handles, err := d.querySelectorAll("input")
	if err != nil {
		return nil, fmt.Errorf("input query failed: %w", err)
	}
	controls := make([]Control, 0, len(handles))
	for _, h := range handles {
		controls = append(controls, &control{handle: h})
	}
	return controls, nil
}

// ClickButton clicks the first button whose text contains label.
func (d *document) ClickButton(label string, timeout time.Duration) error {
	button := d.locate(buttonSelector(label)).First()
	if err := button.Click(playwright.LocatorClickOptions{Timeout: milliseconds(timeout)}); err != nil {
		return fmt.Errorf("%w: button %q: %v", ErrNotFound, label, err)
	}
	return nil
}

// Section climbs levels ancestors from the first element showing label.
func (d *document) Section(label string, levels int) Section {
	loc := d.locate("text=" + label).First()
	for i := 0; i < levels; i++ {
		loc = loc.Locator("..")
	}
	return &section{root: loc}
}

// Text returns the visible text of the body.
func (d *document) Text() (string, error) {
	text, err := d.innerText("body")
	if err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}
	return text, nil
}

// Markup returns the serialized document.
func (d *document) Markup() (string, error) {
	html, err := d.content()
	if err != nil {
		return "", fmt.Errorf("content extraction failed: %w", err)
	}
	return html, nil
}

// WaitForLoad waits for the load event.
func (d *document) WaitForLoad() error {
	if err := d.waitForLoad(); err != nil {
		return fmt.Errorf("wait for load failed: %w", err)
	}
	return nil
}

// Frame returns the content of the first iframe element, if any.
func (d *document) Frame() (Scope, error) {
	handle, err := d.querySelector("iframe")
	if err != nil {
		return nil, fmt.Errorf("iframe query failed: %w", err)
	}
	if handle == nil {
		return nil, nil
	}
	frame, err := handle.ContentFrame()
	if err != nil {
		return nil, fmt.Errorf("iframe content unavailable: %w", err)
	}
	if frame == nil {
		return nil, nil
	}
	return newFrame(frame), nil
}

// control adapts an element handle to Control.
type control struct {
	handle playwright.ElementHandle
}

func (c *control) Fill(value string) error {
	if err := c.handle.Fill(value); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

func (c *control) Click() error {
	if err := c.handle.Click(); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// section adapts a locator to Section.
type section struct {
	root playwright.Locator
}

func (s *section) SelectOption(label string) error {
	_, err := s.root.Locator("select").Nth(0).SelectOption(playwright.SelectOptionValues{
		Labels: playwright.StringSlice(label),
	})
	if err != nil {
		return fmt.Errorf("select option %q failed: %w", label, err)
	}
	return nil
}

func (s *section) Fill(value string) error {
	if err := s.root.Locator("input").First().Fill(value); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

func (s *section) ClickButton(label string) error {
	if err := s.root.Locator(buttonSelector(label)).First().Click(); err != nil {
		return fmt.Errorf("click %q failed: %w", label, err)
	}
	return nil
}

func buttonSelector(label string) string {
	return fmt.Sprintf("button:has-text(%q)", label)
}

// milliseconds converts a timeout to Playwright's option form.
// Zero leaves the option unset so the context default applies.
func milliseconds(d time.Duration) *float64 {
	if d <= 0 {
		return nil
	}
	return playwright.Float(float64(d) / float64(time.Millisecond))
}

// Package browsertest provides scripted in-memory implementations of the
// browser capability for tests.
package browsertest

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/entrhq/boxtrace/pkg/browser"
)

// Recorder collects the actions performed against fakes, in order.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *Recorder) record(format string, args ...interface{}) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

// Events returns a copy of the recorded actions.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// Scope is a fake document.
type Scope struct {
	Name string
	Rec  *Recorder

	Body    string
	HTML    string
	Inputs  []*Control
	Buttons []string
	// Sections maps a label to the section found near it.
	Sections map[string]*Section
	// Child is the content of the first nested frame, nil when absent.
	Child *Scope

	LoadErr error
	TextErr error
}

// Controls returns the fake inputs.
func (s *Scope) Controls() ([]browser.Control, error) {
	s.Rec.record("%s: controls", s.Name)
	out := make([]browser.Control, 0, len(s.Inputs))
	for _, c := range s.Inputs {
		out = append(out, c)
	}
	return out, nil
}

// ClickButton succeeds when a button containing label exists.
func (s *Scope) ClickButton(label string, timeout time.Duration) error {
	for _, b := range s.Buttons {
		if strings.Contains(b, label) {
			s.Rec.record("%s: click button %q", s.Name, label)
			return nil
		}
	}
	s.Rec.record("%s: no button %q", s.Name, label)
	return fmt.Errorf("%w: button %q", browser.ErrNotFound, label)
}

// Section returns the section registered for label, or one that fails every action.
func (s *Scope) Section(label string, levels int) browser.Section {
	if sec, ok := s.Sections[label]; ok {
		if sec.Rec == nil {
			sec.Rec = s.Rec
		}
		if sec.Name == "" {
			sec.Name = s.Name + "/" + label
		}
		sec.Levels = levels
		return sec
	}
	return &Section{Name: s.Name + "/" + label, Rec: s.Rec, Missing: true}
}

// Text returns Body.
func (s *Scope) Text() (string, error) {
	s.Rec.record("%s: text", s.Name)
	if s.TextErr != nil {
		return "", s.TextErr
	}
	return s.Body, nil
}

// Markup returns HTML.
func (s *Scope) Markup() (string, error) {
	s.Rec.record("%s: markup", s.Name)
	return s.HTML, nil
}

// WaitForLoad returns LoadErr.
func (s *Scope) WaitForLoad() error {
	s.Rec.record("%s: wait load", s.Name)
	return s.LoadErr
}

// Frame returns Child.
func (s *Scope) Frame() (browser.Scope, error) {
	if s.Child == nil {
		return nil, nil
	}
	if s.Child.Rec == nil {
		s.Child.Rec = s.Rec
	}
	return s.Child, nil
}

// Page is a fake top-level tab.
type Page struct {
	Scope
	Address string
	// Links maps an anchor label to the tab clicking it opens.
	Links map[string]*Page
	// Window receives tabs opened by FollowLink.
	Window *Window
}

// URL returns Address.
func (p *Page) URL() string {
	return p.Address
}

// FollowLink opens the tab registered for label.
func (p *Page) FollowLink(label string, timeout time.Duration) (browser.Page, error) {
	target, ok := p.Links[label]
	if !ok {
		p.Rec.record("%s: no link %q", p.Name, label)
		return nil, fmt.Errorf("%w: link %q", browser.ErrNotFound, label)
	}
	p.Rec.record("%s: follow link %q", p.Name, label)
	if p.Window != nil {
		p.Window.Open(target)
	}
	return target, nil
}

// Control is a fake input element.
type Control struct {
	Name  string
	Rec   *Recorder
	Value string
	// OnClick runs when the control is clicked, e.g. to open a redirect tab.
	OnClick func()
}

// Fill stores value.
func (c *Control) Fill(value string) error {
	c.Rec.record("%s: fill %q", c.Name, value)
	c.Value = value
	return nil
}

// Click runs OnClick.
func (c *Control) Click() error {
	c.Rec.record("%s: click", c.Name)
	if c.OnClick != nil {
		c.OnClick()
	}
	return nil
}

// Section is a fake element group.
type Section struct {
	Name    string
	Rec     *Recorder
	Options []string
	Buttons []string
	Missing bool

	Levels   int
	Selected string
	Filled   string
	Clicked  []string
	// OnClick runs after a button is clicked, e.g. to update the page markup.
	OnClick func(label string)
}

// SelectOption selects label when it is one of Options.
func (s *Section) SelectOption(label string) error {
	if s.Missing {
		return fmt.Errorf("%w: section %s", browser.ErrNotFound, s.Name)
	}
	for _, o := range s.Options {
		if o == label {
			s.Rec.record("%s: select %q", s.Name, label)
			s.Selected = label
			return nil
		}
	}
	return fmt.Errorf("option %q not found", label)
}

// Fill stores value.
func (s *Section) Fill(value string) error {
	if s.Missing {
		return fmt.Errorf("%w: section %s", browser.ErrNotFound, s.Name)
	}
	s.Rec.record("%s: fill %q", s.Name, value)
	s.Filled = value
	return nil
}

// ClickButton clicks label when it is one of Buttons.
func (s *Section) ClickButton(label string) error {
	if s.Missing {
		return fmt.Errorf("%w: section %s", browser.ErrNotFound, s.Name)
	}
	for _, b := range s.Buttons {
		if strings.Contains(b, label) {
			s.Rec.record("%s: click %q", s.Name, label)
			s.Clicked = append(s.Clicked, label)
			if s.OnClick != nil {
				s.OnClick(label)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: button %q", browser.ErrNotFound, label)
}

// Window is a fake browser context.
type Window struct {
	mu    sync.Mutex
	pages []browser.Page
	entry *Page
}

// NewWindow returns a window whose first tab is entry.
func NewWindow(entry *Page) *Window {
	w := &Window{entry: entry}
	entry.Window = w
	w.pages = append(w.pages, entry)
	return w
}

// Open appends a tab.
func (w *Window) Open(p *Page) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if p.Window == nil {
		p.Window = w
	}
	w.pages = append(w.pages, p)
}

// Entry returns the first tab.
func (w *Window) Entry() browser.Page {
	return w.entry
}

// Pages returns every opened tab in order.
func (w *Window) Pages() []browser.Page {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]browser.Page(nil), w.pages...)
}

package browser

import (
	"errors"
	"time"
)

// ErrNotFound is returned when an element the caller waited for never appeared.
var ErrNotFound = errors.New("browser: element not found")

// Window is a browser context that may open several pages during a resolution.
type Window interface {
	// Entry returns the page the session was opened on.
	Entry() Page

	// Pages returns every open page in the order they were created.
	Pages() []Page
}

// Scope is a document: a top-level page or the content of a nested frame.
// A zero timeout means the capability's default timeout.
type Scope interface {
	// Controls returns the input elements of the document in document order.
	Controls() ([]Control, error)

	// ClickButton clicks the first button whose text contains label.
	ClickButton(label string, timeout time.Duration) error

	// Section returns the element levels ancestors above the first element
	// showing label.
	Section(label string, levels int) Section

	// Text returns the visible text of the document body.
	Text() (string, error)

	// Markup returns the full serialized document.
	Markup() (string, error)

	// WaitForLoad blocks until the document's load event has fired.
	WaitForLoad() error

	// Frame returns the content of the first nested frame, or nil when the
	// document has none.
	Frame() (Scope, error)
}

// Page is a top-level document in its own tab.
type Page interface {
	Scope

	// URL returns the current address of the page.
	URL() string

	// FollowLink clicks the anchor showing label and returns the page that
	// the click opened.
	FollowLink(label string, timeout time.Duration) (Page, error)
}

// Control is a single form element.
type Control interface {
	Fill(value string) error
	Click() error
}

// Section is a group of related elements located by proximity to a label.
type Section interface {
	// SelectOption chooses the option showing label in the first select element.
	SelectOption(label string) error

	// Fill types value into the first input element.
	Fill(value string) error

	// ClickButton clicks the first button whose text contains label.
	ClickButton(label string) error
}

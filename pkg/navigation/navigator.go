// Package navigation drives a browser from the lookup site's search form to
// the extracted tracking text.
//
// The flow is a small finite-state machine. Each state names what has been
// achieved so far and owns the step that leads to the next one:
//
//	Start -> SearchSubmitted -> RedirectChecked -> CarrierPageReached -> HandlerDispatched -> Extracted
//
// Start fills the first input with the container number and clicks the
// second. SearchSubmitted waits a fixed delay and picks the newest tab as the
// redirect target. RedirectChecked follows the "CLICK HERE" link when the
// page shows one. CarrierPageReached picks a carrier handler by URL, or the
// generic flow. HandlerDispatched runs the chosen flow. A failed required
// step ends the run with a *StepError; nothing is retried.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/boxtrace/pkg/browser"
	"github.com/entrhq/boxtrace/pkg/carrier"
	"github.com/entrhq/boxtrace/pkg/decisionlog"
	"github.com/entrhq/boxtrace/pkg/identifier"
	"github.com/entrhq/boxtrace/pkg/logging"
)

var (
	// ErrNoSearchControls is returned when the entry page has fewer than two inputs.
	ErrNoSearchControls = errors.New("navigation: search form not found")

	// ErrLinkNotFound is returned when the carrier link is announced but cannot be followed.
	ErrLinkNotFound = errors.New("navigation: carrier link not found")
)

// CarrierLinkLabel is the text of the interstitial link to the carrier site.
const CarrierLinkLabel = "CLICK HERE"

// State names a point in the navigation flow.
type State int

const (
	StateStart State = iota
	StateSearchSubmitted
	StateRedirectChecked
	StateCarrierPageReached
	StateHandlerDispatched
	StateExtracted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateSearchSubmitted:
		return "SearchSubmitted"
	case StateRedirectChecked:
		return "RedirectChecked"
	case StateCarrierPageReached:
		return "CarrierPageReached"
	case StateHandlerDispatched:
		return "HandlerDispatched"
	case StateExtracted:
		return "Extracted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// StepError reports the state whose step failed.
type StepError struct {
	State State
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("navigation failed in state %s: %v", e.State, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Transition records one step of a run.
type Transition struct {
	From   State
	To     State
	Detail string
}

// Timing carries the delays used between steps.
type Timing struct {
	// RedirectWait is the fixed wait after submitting the search. Redirects
	// slower than this fall through to reusing the entry page.
	RedirectWait time.Duration

	// LinkTimeout bounds waiting for the carrier link and the tab it opens.
	// Zero uses the browser's default timeout.
	LinkTimeout time.Duration
}

// Outcome is the result of a successful run.
type Outcome struct {
	ContainerID identifier.ContainerID
	// Text is the trimmed extracted text: markup for carrier flows that
	// return it, visible text or raw markup for the generic flow.
	Text       string
	Action     decisionlog.Action
	Carrier    string
	CarrierURL string
	Trace      []Transition
}

// Navigator runs the flow against a browser window.
type Navigator struct {
	registry *carrier.Registry
	timing   Timing
	logger   *logging.Logger
}

// New creates a navigator. A nil registry sends every page to the generic flow.
func New(registry *carrier.Registry, timing Timing, logger *logging.Logger) *Navigator {
	if registry == nil {
		registry = carrier.NewRegistry()
	}
	if logger == nil {
		logger = logging.Discard("navigation")
	}
	return &Navigator{registry: registry, timing: timing, logger: logger}
}

// run is the mutable state of a single navigation.
type run struct {
	window browser.Window
	id     identifier.ContainerID

	state       State
	redirected  browser.Page
	landingText string
	carrierPage browser.Page
	carrierURL  string
	handler     carrier.Handler
	text        string
	trace       []Transition
}

// step performs the work owned by the current state and returns the next state.
type step func(ctx context.Context, r *run) (State, string, error)

// Navigate submits id on the window's entry page and follows the flow to the
// extracted text. The window must already show the lookup site.
func (n *Navigator) Navigate(ctx context.Context, window browser.Window, id identifier.ContainerID) (*Outcome, error) {
	steps := map[State]step{
		StateStart:              n.submitSearch,
		StateSearchSubmitted:    n.checkRedirect,
		StateRedirectChecked:    n.reachCarrierPage,
		StateCarrierPageReached: n.dispatch,
		StateHandlerDispatched:  n.extract,
	}

	r := &run{window: window, id: id, state: StateStart}
	for r.state != StateExtracted {
		if err := ctx.Err(); err != nil {
			return nil, &StepError{State: r.state, Err: err}
		}

		next, detail, err := steps[r.state](ctx, r)
		if err != nil {
			n.logger.Errorf("%s: %v", r.state, err)
			return nil, &StepError{State: r.state, Err: err}
		}
		if next <= r.state {
			// only forward transitions are legal
			return nil, &StepError{State: r.state, Err: fmt.Errorf("illegal transition to %s", next)}
		}

		n.logger.Debugf("%s -> %s: %s", r.state, next, detail)
		r.trace = append(r.trace, Transition{From: r.state, To: next, Detail: detail})
		r.state = next
	}

	outcome := &Outcome{
		ContainerID: id,
		Text:        strings.TrimSpace(r.text),
		Action:      decisionlog.GenericAction,
		CarrierURL:  r.carrierURL,
		Trace:       r.trace,
	}
	if r.handler != nil {
		outcome.Carrier = r.handler.Name()
		outcome.Action = decisionlog.CarrierAction(r.handler.Name())
	}
	return outcome, nil
}

// submitSearch fills the first input with the container number and clicks the second.
func (n *Navigator) submitSearch(_ context.Context, r *run) (State, string, error) {
	entry := r.window.Entry()

	controls, err := entry.Controls()
	if err != nil {
		return 0, "", err
	}
	n.logger.Infof("found %d input fields", len(controls))
	if len(controls) < 2 {
		return 0, "", fmt.Errorf("%w: found %d inputs, need 2", ErrNoSearchControls, len(controls))
	}

	n.logger.Infof("filling container number %s", r.id)
	if err := controls[0].Fill(r.id.String()); err != nil {
		return 0, "", err
	}
	n.logger.Infof("clicking search button")
	if err := controls[1].Click(); err != nil {
		return 0, "", err
	}
	return StateSearchSubmitted, "search submitted for " + r.id.String(), nil
}

// checkRedirect waits the fixed redirect delay, picks the newest tab and reads it.
func (n *Navigator) checkRedirect(ctx context.Context, r *run) (State, string, error) {
	n.logger.Infof("waiting %s for any redirection to start", n.timing.RedirectWait)
	if err := browser.Sleep(ctx, n.timing.RedirectWait); err != nil {
		return 0, "", err
	}

	pages := r.window.Pages()
	detail := "no new tab, reusing entry page"
	if len(pages) > 1 {
		r.redirected = pages[len(pages)-1]
		detail = fmt.Sprintf("using newest of %d tabs", len(pages))
	} else {
		r.redirected = r.window.Entry()
	}
	n.logger.Infof("%s", detail)

	if err := r.redirected.WaitForLoad(); err != nil {
		return 0, "", err
	}
	text, err := r.redirected.Text()
	if err != nil {
		return 0, "", err
	}
	r.landingText = text
	n.logger.Debugf("landing page text:\n%s", text)
	return StateRedirectChecked, detail, nil
}

// reachCarrierPage follows the interstitial carrier link when one is announced.
func (n *Navigator) reachCarrierPage(_ context.Context, r *run) (State, string, error) {
	detail := "no carrier link, staying on page"
	r.carrierPage = r.redirected

	if strings.Contains(r.landingText, CarrierLinkLabel) {
		n.logger.Infof("clicking %q link to go to carrier site", CarrierLinkLabel)
		opened, err := r.redirected.FollowLink(CarrierLinkLabel, n.timing.LinkTimeout)
		if err != nil {
			if errors.Is(err, browser.ErrNotFound) {
				return 0, "", fmt.Errorf("%w: %v", ErrLinkNotFound, err)
			}
			return 0, "", err
		}
		r.carrierPage = opened
		detail = "followed carrier link"
	} else {
		n.logger.Infof("%q link not found, staying on same page", CarrierLinkLabel)
	}

	if err := r.carrierPage.WaitForLoad(); err != nil {
		return 0, "", err
	}
	r.carrierURL = r.carrierPage.URL()
	n.logger.Infof("current URL after redirection: %s", r.carrierURL)
	return StateCarrierPageReached, detail + ": " + r.carrierURL, nil
}

// dispatch chooses the carrier handler for the page address, or the generic flow.
func (n *Navigator) dispatch(_ context.Context, r *run) (State, string, error) {
	if handler, ok := n.registry.Match(r.carrierURL); ok {
		r.handler = handler
		n.logger.Infof("detected %s site, using carrier flow", handler.Name())
		return StateHandlerDispatched, "carrier flow " + handler.Name(), nil
	}
	n.logger.Infof("no carrier handler for %s, using generic flow", r.carrierURL)
	return StateHandlerDispatched, "generic flow", nil
}

// extract runs the dispatched flow.
func (n *Navigator) extract(ctx context.Context, r *run) (State, string, error) {
	if r.handler != nil {
		text, err := r.handler.Extract(ctx, r.carrierPage, r.id)
		if err != nil {
			return 0, "", err
		}
		r.text = text
		return StateExtracted, fmt.Sprintf("%s returned %d bytes", r.handler.Name(), len(text)), nil
	}

	text, source, err := n.extractGeneric(r.carrierPage)
	if err != nil {
		return 0, "", err
	}
	r.text = text
	return StateExtracted, fmt.Sprintf("read %d bytes from %s", len(text), source), nil
}

// extractGeneric reads the first nested frame's visible text, or the page
// markup when there is no frame.
func (n *Navigator) extractGeneric(page browser.Page) (string, string, error) {
	n.logger.Infof("trying to read iframe if available")
	frame, err := page.Frame()
	if err != nil {
		return "", "", err
	}
	if frame == nil {
		n.logger.Warnf("iframe not found, reading page content")
		markup, err := page.Markup()
		return markup, "page markup", err
	}

	if err := frame.WaitForLoad(); err != nil {
		return "", "", err
	}
	text, err := frame.Text()
	return text, "iframe text", err
}

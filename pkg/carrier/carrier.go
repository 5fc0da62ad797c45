// Package carrier holds the carrier-specific extraction flows and the registry
// that picks one from the address a lookup ended on.
package carrier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gobwas/glob"

	"github.com/entrhq/boxtrace/pkg/browser"
	"github.com/entrhq/boxtrace/pkg/identifier"
	"github.com/entrhq/boxtrace/pkg/logging"
)

// ErrUnknownCarrier is returned when configuration names a handler that does not exist.
var ErrUnknownCarrier = errors.New("carrier: unknown carrier")

// Handler extracts tracking data from a carrier's own site.
type Handler interface {
	// Name identifies the carrier, e.g. "hmm".
	Name() string

	// Extract drives the carrier page and returns the result text.
	Extract(ctx context.Context, page browser.Page, id identifier.ContainerID) (string, error)
}

// Timing carries the delays handlers use.
type Timing struct {
	// SettleWait is the fixed wait for an in-page refresh after submitting.
	SettleWait time.Duration
	// PopupTimeout bounds the search for a dismissable dialog.
	PopupTimeout time.Duration
}

// Factory builds a handler.
type Factory func(timing Timing, logger *logging.Logger) Handler

// Builtin lists the handlers that configuration can refer to by name.
var Builtin = map[string]Factory{
	"hmm": func(timing Timing, logger *logging.Logger) Handler {
		return NewHMM(timing, logger)
	},
}

type binding struct {
	patterns []glob.Glob
	handler  Handler
}

// Registry maps URL patterns to handlers. The first matching binding wins.
type Registry struct {
	bindings []binding
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register binds handler to the given glob patterns, matched against the full URL.
func (r *Registry) Register(handler Handler, patterns ...string) error {
	if len(patterns) == 0 {
		return fmt.Errorf("carrier %q: no patterns", handler.Name())
	}
	b := binding{handler: handler}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return fmt.Errorf("carrier %q: invalid pattern %q: %w", handler.Name(), p, err)
		}
		b.patterns = append(b.patterns, g)
	}
	r.bindings = append(r.bindings, b)
	return nil
}

// Match returns the handler for url.
func (r *Registry) Match(url string) (Handler, bool) {
	for _, b := range r.bindings {
		for _, g := range b.patterns {
			if g.Match(url) {
				return b.handler, true
			}
		}
	}
	return nil, false
}

// Names returns the registered carrier names in match order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.bindings))
	for _, b := range r.bindings {
		names = append(names, b.handler.Name())
	}
	return names
}

// Binding names a builtin handler and its URL patterns.
type Binding struct {
	Name  string
	Match []string
}

// Build creates a registry of builtin handlers.
func Build(bindings []Binding, timing Timing, logger *logging.Logger) (*Registry, error) {
	if logger == nil {
		logger = logging.Discard("carrier")
	}
	r := NewRegistry()
	for _, b := range bindings {
		factory, ok := Builtin[b.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCarrier, b.Name)
		}
		if err := r.Register(factory(timing, logger.Component("carrier."+b.Name)), b.Match...); err != nil {
			return nil, err
		}
	}
	return r, nil
}

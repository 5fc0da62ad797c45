// Package resolver turns a free-text query into a cached tracking result.
//
// A resolution consults the cache, extracts the container number, drives the
// browser through the navigation flow, classifies the extracted text, saves
// it to the cache and finally appends a decision record. Cache hits and
// failures before the save write nothing.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/boxtrace/pkg/browser"
	"github.com/entrhq/boxtrace/pkg/cache"
	"github.com/entrhq/boxtrace/pkg/classifier"
	"github.com/entrhq/boxtrace/pkg/decisionlog"
	"github.com/entrhq/boxtrace/pkg/identifier"
	"github.com/entrhq/boxtrace/pkg/logging"
	"github.com/entrhq/boxtrace/pkg/navigation"
)

// ErrNoContainerID is returned when the query holds no container number.
var ErrNoContainerID = errors.New("no container number found in query")

// Launcher opens a browser window positioned at the lookup site.
type Launcher interface {
	Launch(ctx context.Context) (browser.Window, error)
	Close() error
}

// Navigator drives an open window to the extracted text.
type Navigator interface {
	Navigate(ctx context.Context, window browser.Window, id identifier.ContainerID) (*navigation.Outcome, error)
}

// Resolution is the result of a query.
type Resolution struct {
	Query string
	Entry cache.Entry
	// FromCache is set when the entry was returned without navigating.
	FromCache bool
	// Missing is the classifier's advisory verdict on Entry.Result.
	Missing bool
	// Action and CarrierURL are empty for cache hits.
	Action     decisionlog.Action
	CarrierURL string
}

// Resolver wires the stores, the extractor and the navigator together.
type Resolver struct {
	cache     *cache.Store
	decisions *decisionlog.Log
	extractor *identifier.Extractor
	launcher  Launcher
	navigator Navigator
	logger    *logging.Logger
}

// Options configures a Resolver. Cache, Decisions, Launcher and Navigator are required.
type Options struct {
	Cache     *cache.Store
	Decisions *decisionlog.Log
	Extractor *identifier.Extractor
	Launcher  Launcher
	Navigator Navigator
	Logger    *logging.Logger
}

// New creates a resolver.
func New(opts Options) (*Resolver, error) {
	switch {
	case opts.Cache == nil:
		return nil, errors.New("resolver: cache is required")
	case opts.Decisions == nil:
		return nil, errors.New("resolver: decision log is required")
	case opts.Launcher == nil:
		return nil, errors.New("resolver: launcher is required")
	case opts.Navigator == nil:
		return nil, errors.New("resolver: navigator is required")
	}

	r := &Resolver{
		cache:     opts.Cache,
		decisions: opts.Decisions,
		extractor: opts.Extractor,
		launcher:  opts.Launcher,
		navigator: opts.Navigator,
		logger:    opts.Logger,
	}
	if r.extractor == nil {
		r.extractor = identifier.NewExtractor(nil)
	}
	if r.logger == nil {
		r.logger = logging.Discard("resolver")
	}
	return r, nil
}

// Resolve returns the tracking result for query.
func (r *Resolver) Resolve(ctx context.Context, query string) (*Resolution, error) {
	if entry, ok := r.cache.Get(query); ok {
		r.logger.Infof("cache hit for %q", query)
		return &Resolution{
			Query:     query,
			Entry:     entry,
			FromCache: true,
			Missing:   classifier.IsMissing(entry.Result),
		}, nil
	}

	id, ok := r.extractor.Extract(query)
	if !ok {
		r.logger.Warnf("no container number in %q", query)
		return nil, ErrNoContainerID
	}
	r.logger.Infof("extracted container number %s", id)

	outcome, err := r.navigate(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &Resolution{
		Query: query,
		Entry: cache.Entry{
			ContainerNumber: id.String(),
			Result:          outcome.Text,
		},
		Missing:    classifier.IsMissing(outcome.Text),
		Action:     outcome.Action,
		CarrierURL: outcome.CarrierURL,
	}
	if res.Missing {
		r.logger.Warnf("result for %s looks like missing data", id)
	}

	r.cache.Put(query, res.Entry)
	if err := r.cache.Save(); err != nil {
		return nil, err
	}

	if err := r.decisions.Append(decisionlog.Record{
		Query:          query,
		Action:         outcome.Action,
		ContainerFound: id.String(),
	}); err != nil {
		return nil, err
	}
	r.logger.Infof("logged %s for %s", outcome.Action, id)

	return res, nil
}

// navigate runs one browser session and always closes it.
func (r *Resolver) navigate(ctx context.Context, id identifier.ContainerID) (*navigation.Outcome, error) {
	window, err := r.launcher.Launch(ctx)
	if err != nil {
		_ = r.launcher.Close()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer func() {
		if cerr := r.launcher.Close(); cerr != nil {
			r.logger.Warnf("failed to close browser: %v", cerr)
		}
	}()

	return r.navigator.Navigate(ctx, window, id)
}

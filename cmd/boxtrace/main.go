// Package main provides the boxtrace command: ask for a tracking query once,
// resolve it through the carrier lookup site and print the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/atotto/clipboard"

	"github.com/entrhq/boxtrace/pkg/browser"
	"github.com/entrhq/boxtrace/pkg/cache"
	"github.com/entrhq/boxtrace/pkg/carrier"
	"github.com/entrhq/boxtrace/pkg/config"
	"github.com/entrhq/boxtrace/pkg/decisionlog"
	"github.com/entrhq/boxtrace/pkg/logging"
	"github.com/entrhq/boxtrace/pkg/navigation"
	"github.com/entrhq/boxtrace/pkg/resolver"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigFile  string
	Query       string
	Copy        bool
	ShowVersion bool
}

func main() {
	cli := parseFlags()

	if cli.ShowVersion {
		fmt.Printf("boxtrace v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	if err := run(ctx, cli); err != nil {
		cancel()
		printError(os.Stderr, err)
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags() *CLIConfig {
	cli := &CLIConfig{}

	flag.StringVar(&cli.ConfigFile, "config", "", "Path to configuration file (YAML)")
	flag.StringVar(&cli.Query, "query", "", "Tracking query (prompted for when empty)")
	flag.BoolVar(&cli.Copy, "copy", false, "Copy the result to the clipboard")
	flag.BoolVar(&cli.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "boxtrace - container tracking lookup\n\n")
		fmt.Fprintf(os.Stderr, "Usage: boxtrace [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  boxtrace\n")
		fmt.Fprintf(os.Stderr, "  boxtrace -query \"Get tracking info for HMM booking ID SINI25432400\"\n")
		fmt.Fprintf(os.Stderr, "  boxtrace -config boxtrace.yaml\n\n")
	}

	flag.Parse()
	return cli
}

// run resolves one query. A query without a container number is reported
// and is not an error.
func run(ctx context.Context, cli *CLIConfig) error {
	cfg, err := config.Load(cli.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, logErr := logging.NewLogger("boxtrace")
	if logErr != nil {
		logger.Warnf("file logging unavailable: %v", logErr)
	}
	defer logger.Close()
	logger.SetLevel(logging.LevelForVerbosity(cfg.Logging.Verbosity))
	if cfg.Logging.Verbosity == "debug" {
		logger.Tee(os.Stderr)
	}
	logger.Infof("session %s starting with entry URL %s", logger.SessionID(), cfg.EntryURL)

	query := cli.Query
	if query == "" {
		query, err = promptQuery()
		if errors.Is(err, errPromptAborted) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read query: %w", err)
		}
	}

	r, err := newResolver(cfg, logger)
	if err != nil {
		return err
	}

	res, err := r.Resolve(ctx, query)
	if errors.Is(err, resolver.ErrNoContainerID) {
		printWarning(os.Stdout, "No valid container number found in your query.")
		return nil
	}
	if err != nil {
		return err
	}

	printResolution(os.Stdout, res, cfg.Logging.Verbosity == "verbose" || cfg.Logging.Verbosity == "debug")

	if cli.Copy {
		if err := clipboard.WriteAll(res.Entry.Result); err != nil {
			printWarning(os.Stdout, fmt.Sprintf("Could not copy the result to the clipboard: %v", err))
		} else {
			fmt.Println(hintStyle.Render("Result copied to the clipboard."))
		}
	}
	return nil
}

// newResolver wires the stores, browser and navigator described by cfg.
func newResolver(cfg *config.Config, logger *logging.Logger) (*resolver.Resolver, error) {
	store, err := cache.Load(cfg.CacheFile)
	if err != nil {
		return nil, err
	}
	logger.Debugf("loaded %d cached results from %s", store.Len(), store.Path())

	bindings := make([]carrier.Binding, 0, len(cfg.Carriers))
	for _, c := range cfg.Carriers {
		bindings = append(bindings, carrier.Binding{Name: c.Name, Match: c.Match})
	}
	registry, err := carrier.Build(bindings, carrier.Timing{
		SettleWait:   cfg.Timing.SettleWait,
		PopupTimeout: cfg.Timing.PopupTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build carrier registry: %w", err)
	}
	logger.Debugf("carrier handlers: %s", strings.Join(registry.Names(), ", "))

	launcher := browser.NewLauncher(browser.NewSessionManager(), cfg.EntryURL, browser.SessionOptions{
		Headless: cfg.Browser.Headless,
		Viewport: &browser.Viewport{
			Width:  cfg.Browser.ViewportWidth,
			Height: cfg.Browser.ViewportHeight,
		},
		Timeout: float64(cfg.Browser.Timeout.Milliseconds()),
	})

	navigator := navigation.New(registry, navigation.Timing{
		RedirectWait: cfg.Timing.RedirectWait,
		LinkTimeout:  cfg.Timing.LinkTimeout,
	}, logger.Component("navigation"))

	return resolver.New(resolver.Options{
		Cache:     store,
		Decisions: decisionlog.Open(cfg.DecisionLogFile),
		Launcher:  launcher,
		Navigator: navigator,
		Logger:    logger.Component("resolver"),
	})
}

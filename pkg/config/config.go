// Package config loads boxtrace settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the full boxtrace configuration
type Config struct {
	// Lookup site the search starts from
	EntryURL string `yaml:"entry_url" json:"entry_url"`

	// Persisted state
	CacheFile       string `yaml:"cache_file" json:"cache_file"`
	DecisionLogFile string `yaml:"decision_log_file" json:"decision_log_file"`

	// Browser session settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Fixed delays and short timeouts used during navigation
	Timing TimingConfig `yaml:"timing" json:"timing"`

	// Carrier handlers and the URL patterns that select them
	Carriers []CarrierConfig `yaml:"carriers" json:"carriers"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// BrowserConfig defines how the browser is launched
type BrowserConfig struct {
	Headless       bool          `yaml:"headless" json:"headless"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout"` // default for every browser operation
	ViewportWidth  int           `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int           `yaml:"viewport_height" json:"viewport_height"`
}

// TimingConfig holds the navigation delays
type TimingConfig struct {
	// RedirectWait is how long to wait after submitting the search before
	// looking for a redirect tab
	RedirectWait time.Duration `yaml:"redirect_wait" json:"redirect_wait"`

	// SettleWait is how long a carrier handler waits for an in-page refresh
	SettleWait time.Duration `yaml:"settle_wait" json:"settle_wait"`

	// PopupTimeout bounds the search for a dismissable dialog
	PopupTimeout time.Duration `yaml:"popup_timeout" json:"popup_timeout"`

	// LinkTimeout bounds waiting for the carrier link and the tab it opens;
	// zero uses the browser timeout
	LinkTimeout time.Duration `yaml:"link_timeout" json:"link_timeout"`
}

// CarrierConfig binds a handler to URL glob patterns
type CarrierConfig struct {
	Name  string   `yaml:"name" json:"name"`
	Match []string `yaml:"match" json:"match"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls output level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		EntryURL:        "http://www.seacargotracking.net",
		CacheFile:       "cache.json",
		DecisionLogFile: "ai_decision_log.json",
		Browser: BrowserConfig{
			Headless:       false,
			Timeout:        30 * time.Second,
			ViewportWidth:  1280,
			ViewportHeight: 720,
		},
		Timing: TimingConfig{
			RedirectWait: 6 * time.Second,
			SettleWait:   10 * time.Second,
			PopupTimeout: 5 * time.Second,
		},
		Carriers: []CarrierConfig{
			{Name: "hmm", Match: []string{"*hmm21*"}},
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
	}
}

// Load reads the YAML file at path on top of the defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.EntryURL == "" {
		return fmt.Errorf("entry_url is required")
	}
	if u, err := url.Parse(c.EntryURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("entry_url must be an absolute URL: %q", c.EntryURL)
	}

	if c.CacheFile == "" {
		return fmt.Errorf("cache_file is required")
	}
	if c.DecisionLogFile == "" {
		return fmt.Errorf("decision_log_file is required")
	}

	if c.Browser.Timeout < 0 {
		return fmt.Errorf("browser timeout cannot be negative")
	}
	if c.Browser.ViewportWidth < 100 || c.Browser.ViewportWidth > 5000 {
		return fmt.Errorf("viewport width must be between 100 and 5000 pixels")
	}
	if c.Browser.ViewportHeight < 100 || c.Browser.ViewportHeight > 5000 {
		return fmt.Errorf("viewport height must be between 100 and 5000 pixels")
	}

	if c.Timing.RedirectWait < 0 || c.Timing.SettleWait < 0 ||
		c.Timing.PopupTimeout < 0 || c.Timing.LinkTimeout < 0 {
		return fmt.Errorf("timing values cannot be negative")
	}

	seen := make(map[string]bool)
	for i, carrier := range c.Carriers {
		if carrier.Name == "" {
			return fmt.Errorf("carriers[%d]: name is required", i)
		}
		if seen[carrier.Name] {
			return fmt.Errorf("carriers[%d]: duplicate carrier %q", i, carrier.Name)
		}
		seen[carrier.Name] = true
		if len(carrier.Match) == 0 {
			return fmt.Errorf("carrier %q: at least one match pattern is required", carrier.Name)
		}
	}

	// Set default verbosity if not specified
	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}

	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
	}
	if !validLevels[c.Logging.Verbosity] {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	return nil
}

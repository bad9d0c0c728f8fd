// Package config loads and validates pomo's run configuration.
//
// Values come from three layers, applied in order: built-in defaults, an
// optional YAML file, then command-line overrides applied by the caller.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTimerURL is the page both tabs are pointed at.
const DefaultTimerURL = "https://vclock.com/timer/"

// Default session lengths in minutes.
const (
	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5
)

// Config represents the configuration for a pomo run
type Config struct {
	// TimerURL is the external timer page driven in both tabs
	TimerURL string `yaml:"timer_url" json:"timer_url"`

	// Session lengths, fixed for the lifetime of the process
	WorkMinutes  int `yaml:"work_minutes" json:"work_minutes"`
	BreakMinutes int `yaml:"break_minutes" json:"break_minutes"`

	// MaxCycles stops the loop after this many completed cycles (0 runs forever)
	MaxCycles int `yaml:"max_cycles" json:"max_cycles"`

	Browser BrowserConfig `yaml:"browser" json:"browser"`
	Delays  DelayConfig   `yaml:"delays" json:"delays"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// BrowserConfig selects and launches the browser.
type BrowserConfig struct {
	// Product picks the platform candidate list: brave, chrome or chromium
	Product string `yaml:"product" json:"product"`

	// ExecutablePath is probed before the platform candidates
	ExecutablePath string `yaml:"executable_path" json:"executable_path"`

	// Bundled skips probing and lets Playwright use its own Chromium build
	Bundled bool `yaml:"bundled" json:"bundled"`

	Headless bool `yaml:"headless" json:"headless"`
}

// DelayConfig holds the fixed settle delays used while driving the page.
type DelayConfig struct {
	PageLoad     time.Duration `yaml:"page_load" json:"page_load"`
	TabOpen      time.Duration `yaml:"tab_open" json:"tab_open"`
	Focus        time.Duration `yaml:"focus" json:"focus"`
	PreReset     time.Duration `yaml:"pre_reset" json:"pre_reset"`
	Reload       time.Duration `yaml:"reload" json:"reload"`
	PostReset    time.Duration `yaml:"post_reset" json:"post_reset"`
	PreSet       time.Duration `yaml:"pre_set" json:"pre_set"`
	PostSet      time.Duration `yaml:"post_set" json:"post_set"`
	PreStart     time.Duration `yaml:"pre_start" json:"pre_start"`
	Retry        time.Duration `yaml:"retry" json:"retry"`
	StartTimeout time.Duration `yaml:"start_timeout" json:"start_timeout"`

	// Tick is the length of one progress step; a session lasts Minutes ticks
	Tick time.Duration `yaml:"tick" json:"tick"`
}

// LoggingConfig defines where the debug log is written
type LoggingConfig struct {
	// Dir overrides the default ~/.pomo/logs directory
	Dir string `yaml:"dir" json:"dir"`
}

// Supported browser products.
const (
	ProductBrave    = "brave"
	ProductChrome   = "chrome"
	ProductChromium = "chromium"
)

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		TimerURL:     DefaultTimerURL,
		WorkMinutes:  DefaultWorkMinutes,
		BreakMinutes: DefaultBreakMinutes,
		Browser: BrowserConfig{
			Product: ProductBrave,
		},
		Delays: DelayConfig{
			PageLoad:     5 * time.Second,
			TabOpen:      1 * time.Second,
			Focus:        1500 * time.Millisecond,
			PreReset:     2 * time.Second,
			Reload:       4 * time.Second,
			PostReset:    2 * time.Second,
			PreSet:       2 * time.Second,
			PostSet:      1 * time.Second,
			PreStart:     1 * time.Second,
			Retry:        5 * time.Second,
			StartTimeout: 5 * time.Second,
			Tick:         time.Minute,
		},
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.TimerURL == "" {
		return fmt.Errorf("timer_url is required")
	}
	u, err := url.Parse(c.TimerURL)
	if err != nil {
		return fmt.Errorf("invalid timer_url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid timer_url: %s (must be an absolute URL)", c.TimerURL)
	}

	if c.WorkMinutes < 0 {
		return fmt.Errorf("work_minutes cannot be negative")
	}
	if c.BreakMinutes < 0 {
		return fmt.Errorf("break_minutes cannot be negative")
	}
	if c.MaxCycles < 0 {
		return fmt.Errorf("max_cycles cannot be negative")
	}

	switch c.Browser.Product {
	case ProductBrave, ProductChrome, ProductChromium:
	default:
		return fmt.Errorf("invalid browser product: %s (must be 'brave', 'chrome', or 'chromium')", c.Browser.Product)
	}

	delays := map[string]time.Duration{
		"page_load":     c.Delays.PageLoad,
		"tab_open":      c.Delays.TabOpen,
		"focus":         c.Delays.Focus,
		"pre_reset":     c.Delays.PreReset,
		"reload":        c.Delays.Reload,
		"post_reset":    c.Delays.PostReset,
		"pre_set":       c.Delays.PreSet,
		"post_set":      c.Delays.PostSet,
		"pre_start":     c.Delays.PreStart,
		"retry":         c.Delays.Retry,
		"start_timeout": c.Delays.StartTimeout,
	}
	for name, d := range delays {
		if d < 0 {
			return fmt.Errorf("delay %s cannot be negative", name)
		}
	}
	if c.Delays.Tick <= 0 {
		return fmt.Errorf("delay tick must be positive")
	}

	return nil
}

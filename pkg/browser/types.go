package browser

import (
	"context"
	"time"
)

// Tab is one browsing context (tab or window) in a running browser.
type Tab interface {
	// ID is an opaque identifier, stable for the lifetime of the tab
	ID() string

	// Navigate loads url in the tab
	Navigate(url string) error

	// Focus brings the tab to the front
	Focus() error

	// Reload reloads the current page
	Reload() error

	// Evaluate runs a JavaScript expression or function in the page.
	// When arg is non-nil and expression is a function, arg is passed to it.
	Evaluate(expression string, arg interface{}) (interface{}, error)

	// Inputs returns every <input> element currently in the page
	Inputs() ([]Input, error)

	// Click waits up to timeout for the first element matching selector to
	// become clickable, then clicks it
	Click(selector string, timeout time.Duration) error

	// Content returns the serialized HTML of the page
	Content() (string, error)
}

// Input is a form input element in a Tab.
type Input interface {
	// Attribute returns the value of the named attribute, "" when absent
	Attribute(name string) (string, error)

	// Fill clears the input and types value into it
	Fill(value string) error
}

// Driver owns a browser process and the tabs opened in it.
type Driver interface {
	// NewTab opens a fresh, blank tab
	NewTab() (Tab, error)

	// Close closes every tab and terminates the browser
	Close() error
}

// Launcher starts a browser.
type Launcher interface {
	Launch(ctx context.Context, opts LaunchOptions) (Driver, error)
}

// LaunchOptions configures a browser launch.
type LaunchOptions struct {
	// ExecutablePath selects the browser binary; empty means the
	// automation library's bundled Chromium
	ExecutablePath string

	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Args are extra command-line switches; nil uses DefaultArgs
	Args []string
}

// DefaultArgs are passed to Chromium-based browsers for unattended runs.
var DefaultArgs = []string{
	"--disable-blink-features=AutomationControlled",
	"--disable-gpu",
	"--no-sandbox",
	"--disable-dev-shm-usage",
	"--disable-notifications",
	"--disable-popup-blocking",
	"--disable-features=VizDisplayCompositor",
	"--log-level=3",
	"--start-maximized",
	"--disable-brave-update",
}

// Default values for page operations
const (
	DefaultTimeout = 30000.0 // 30 seconds in milliseconds
)

// Package browsertest provides in-memory browser fakes for tests.
//
// The fakes record every call and let tests inject failures or canned
// results through plain fields and hook functions.
package browsertest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/pomo/pkg/browser"
)

// Tab is a scriptable browser.Tab.
type Tab struct {
	mu sync.Mutex

	Name string

	NavigateErr error
	FocusErr    error
	ReloadErr   error

	// Hooks; a nil hook returns a zero result
	EvaluateFunc func(expression string, arg interface{}) (interface{}, error)
	InputsFunc   func() ([]browser.Input, error)
	ClickFunc    func(selector string, timeout time.Duration) error
	ContentFunc  func() (string, error)

	URL         string
	Navigations []string
	Focuses     int
	Reloads     int
	Evaluations []string
	Clicks      []string
}

var _ browser.Tab = (*Tab)(nil)

// ID returns the tab name.
func (t *Tab) ID() string { return t.Name }

// Navigate records url and fails with NavigateErr when set.
func (t *Tab) Navigate(url string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Navigations = append(t.Navigations, url)
	if t.NavigateErr != nil {
		return t.NavigateErr
	}
	t.URL = url
	return nil
}

// Focus counts focus calls.
func (t *Tab) Focus() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Focuses++
	return t.FocusErr
}

// Reload counts reloads.
func (t *Tab) Reload() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Reloads++
	return t.ReloadErr
}

// Evaluate records the expression and delegates to EvaluateFunc.
func (t *Tab) Evaluate(expression string, arg interface{}) (interface{}, error) {
	t.mu.Lock()
	t.Evaluations = append(t.Evaluations, expression)
	fn := t.EvaluateFunc
	t.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	return fn(expression, arg)
}

// Inputs delegates to InputsFunc.
func (t *Tab) Inputs() ([]browser.Input, error) {
	if t.InputsFunc == nil {
		return nil, nil
	}
	return t.InputsFunc()
}

// Click records the selector and delegates to ClickFunc.
func (t *Tab) Click(selector string, timeout time.Duration) error {
	t.mu.Lock()
	t.Clicks = append(t.Clicks, selector)
	fn := t.ClickFunc
	t.mu.Unlock()

	if fn == nil {
		return nil
	}
	return fn(selector, timeout)
}

// Content delegates to ContentFunc.
func (t *Tab) Content() (string, error) {
	if t.ContentFunc == nil {
		return "<html><body></body></html>", nil
	}
	return t.ContentFunc()
}

// Input is a scriptable browser.Input.
type Input struct {
	Attrs   map[string]string
	AttrErr error
	FillErr error

	Value string
	Fills int
}

var _ browser.Input = (*Input)(nil)

// NewInput creates an input with the given id and name attributes.
func NewInput(id, name string) *Input {
	attrs := map[string]string{}
	if id != "" {
		attrs["id"] = id
	}
	if name != "" {
		attrs["name"] = name
	}
	return &Input{Attrs: attrs}
}

// Attribute returns the attribute value or "", or AttrErr when set.
func (i *Input) Attribute(name string) (string, error) {
	if i.AttrErr != nil {
		return "", i.AttrErr
	}
	return i.Attrs[name], nil
}

// Fill stores value unless FillErr is set.
func (i *Input) Fill(value string) error {
	i.Fills++
	if i.FillErr != nil {
		return i.FillErr
	}
	i.Value = value
	return nil
}

// Driver is a scriptable browser.Driver.
type Driver struct {
	mu sync.Mutex

	NewTabErr error
	CloseErr  error

	// Configure, when set, is applied to every new tab before it is returned
	Configure func(tab *Tab)

	Tabs       []*Tab
	CloseCalls int
}

var _ browser.Driver = (*Driver)(nil)

// NewTab creates a new fake tab.
func (d *Driver) NewTab() (browser.Tab, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.NewTabErr != nil {
		return nil, d.NewTabErr
	}
	tab := &Tab{Name: fmt.Sprintf("tab-%d", len(d.Tabs)+1)}
	if d.Configure != nil {
		d.Configure(tab)
	}
	d.Tabs = append(d.Tabs, tab)
	return tab, nil
}

// Close counts calls and returns CloseErr.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.CloseCalls++
	return d.CloseErr
}

// Launcher returns Driver, or Err when set.
type Launcher struct {
	Driver *Driver
	Err    error

	Launches []browser.LaunchOptions
}

var _ browser.Launcher = (*Launcher)(nil)

// Launch records opts.
func (l *Launcher) Launch(ctx context.Context, opts browser.LaunchOptions) (browser.Driver, error) {
	l.Launches = append(l.Launches, opts)
	if l.Err != nil {
		return nil, l.Err
	}
	if l.Driver == nil {
		l.Driver = &Driver{}
	}
	return l.Driver, nil
}

// Locator is a fixed browser.Locator.
type Locator struct {
	Path  string
	Paths []string
}

var _ browser.Locator = (*Locator)(nil)

// FindExecutable returns Path, reporting false when it is empty.
func (l *Locator) FindExecutable() (string, bool) {
	return l.Path, l.Path != ""
}

// Candidates returns Paths.
func (l *Locator) Candidates() []string {
	return l.Paths
}

package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightLauncher launches Chromium-based browsers through Playwright.
type PlaywrightLauncher struct {
	// Output receives driver install and runtime output; nil discards it
	Output io.Writer
}

// Launch installs the Playwright driver if needed, starts it and launches the
// browser. The bundled Chromium is only downloaded when opts.ExecutablePath
// is empty.
func (l *PlaywrightLauncher) Launch(ctx context.Context, opts LaunchOptions) (Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := l.Output
	if out == nil {
		out = io.Discard
	}

	runOpts := &playwright.RunOptions{
		Verbose:             false,
		Stdout:              out,
		Stderr:              out,
		Browsers:            []string{"chromium"},
		SkipInstallBrowsers: opts.ExecutablePath != "",
	}

	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	args := opts.Args
	if args == nil {
		args = DefaultArgs
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless:          playwright.Bool(opts.Headless),
		Args:              args,
		IgnoreDefaultArgs: []string{"--enable-automation"},
	}
	if opts.ExecutablePath != "" {
		launchOpts.ExecutablePath = playwright.String(opts.ExecutablePath)
	}

	browser, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	// No fixed viewport so pages follow the maximized window.
	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		NoViewport: playwright.Bool(true),
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	return &playwrightDriver{
		pw:      pw,
		browser: browser,
		context: bctx,
	}, nil
}

type playwrightDriver struct {
	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	tabs    []*playwrightTab
	closed  bool
}

func (d *playwrightDriver) NewTab() (Tab, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, fmt.Errorf("browser already closed")
	}

	page, err := d.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(DefaultTimeout)

	tab := &playwrightTab{
		id:   fmt.Sprintf("tab-%d", len(d.tabs)+1),
		page: page,
	}
	d.tabs = append(d.tabs, tab)
	return tab, nil
}

// Close closes pages, context and browser, then stops the Playwright driver.
// Every step runs even when an earlier one fails.
func (d *playwrightDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	for _, tab := range d.tabs {
		if err := tab.page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", tab.id, err))
		}
	}
	if err := d.context.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close context: %w", err))
	}
	if err := d.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	if err := d.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

type playwrightTab struct {
	id   string
	page playwright.Page
}

func (t *playwrightTab) ID() string { return t.id }

func (t *playwrightTab) Navigate(url string) error {
	waitUntil := playwright.WaitUntilState("load")
	if _, err := t.page.Goto(url, playwright.PageGotoOptions{WaitUntil: &waitUntil}); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (t *playwrightTab) Focus() error {
	if err := t.page.BringToFront(); err != nil {
		return fmt.Errorf("focus failed: %w", err)
	}
	return nil
}

func (t *playwrightTab) Reload() error {
	if _, err := t.page.Reload(); err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}
	return nil
}

func (t *playwrightTab) Evaluate(expression string, arg interface{}) (interface{}, error) {
	var (
		result interface{}
		err    error
	)
	if arg == nil {
		result, err = t.page.Evaluate(expression)
	} else {
		result, err = t.page.Evaluate(expression, arg)
	}
	if err != nil {
		return nil, fmt.Errorf("JavaScript execution failed: %w", err)
	}
	return result, nil
}

func (t *playwrightTab) Inputs() ([]Input, error) {
	elements, err := t.page.QuerySelectorAll("input")
	if err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}
	inputs := make([]Input, 0, len(elements))
	for _, el := range elements {
		inputs = append(inputs, elementInput{el: el})
	}
	return inputs, nil
}

func (t *playwrightTab) Click(selector string, timeout time.Duration) error {
	opts := playwright.LocatorClickOptions{}
	if timeout > 0 {
		opts.Timeout = playwright.Float(float64(timeout.Milliseconds()))
	}
	if err := t.page.Locator(selector).First().Click(opts); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (t *playwrightTab) Content() (string, error) {
	html, err := t.page.Content()
	if err != nil {
		return "", fmt.Errorf("content extraction failed: %w", err)
	}
	return html, nil
}

type elementInput struct {
	el playwright.ElementHandle
}

func (i elementInput) Attribute(name string) (string, error) {
	return i.el.GetAttribute(name)
}

func (i elementInput) Fill(value string) error {
	return i.el.Fill(value)
}

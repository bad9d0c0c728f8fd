package pomodoro

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pomo/pkg/browser/browsertest"
	"github.com/entrhq/pomo/pkg/config"
	"github.com/entrhq/pomo/pkg/console"
	"github.com/entrhq/pomo/pkg/logging"
)

type appHarness struct {
	app      *App
	cfg      *config.Config
	clock    *fakeClock
	launcher *browsertest.Launcher
	driver   *browsertest.Driver
	out      *bytes.Buffer
}

func newAppHarness(t *testing.T) *appHarness {
	t.Helper()

	cfg := config.Default()
	cfg.WorkMinutes = 1
	cfg.BreakMinutes = 1
	cfg.MaxCycles = 1
	cfg.Delays.Tick = 7 * time.Second

	h := &appHarness{
		cfg:    cfg,
		clock:  newFakeClock(),
		driver: &browsertest.Driver{},
		out:    &bytes.Buffer{},
	}
	h.launcher = &browsertest.Launcher{Driver: h.driver}
	h.app = &App{
		Config:   cfg,
		Launcher: h.launcher,
		Locator:  &browsertest.Locator{Path: "/opt/brave/brave"},
		Clock:    h.clock,
		Console:  console.New(h.out, h.clock.Now),
		Log:      logging.NewWriter("test", &bytes.Buffer{}),
	}
	return h
}

func TestApp_CompletesOneCycle(t *testing.T) {
	h := newAppHarness(t)

	code := h.app.Run(context.Background())

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, 1, h.app.Cycles())
	require.Len(t, h.launcher.Launches, 1)
	assert.Equal(t, "/opt/brave/brave", h.launcher.Launches[0].ExecutablePath)
	assert.Equal(t, 1, h.driver.CloseCalls)

	out := h.out.String()
	assert.Contains(t, out, "POMODORO TIMER AUTOMATION - BRAVE EDITION")
	assert.Contains(t, out, "Found Brave at: /opt/brave/brave")
	assert.Contains(t, out, "Total cycles completed: 1")
	assert.Contains(t, out, "Brave browser closed. Goodbye!")
	assert.Less(t, strings.Index(out, "Total cycles completed"), strings.Index(out, "Cleaning up..."))
}

func TestApp_BrowserNotFound(t *testing.T) {
	h := newAppHarness(t)
	h.app.Locator = &browsertest.Locator{Paths: []string{"/a/brave", "/b/brave"}}

	code := h.app.Run(context.Background())

	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, h.launcher.Launches)

	out := h.out.String()
	assert.Contains(t, out, "  - /a/brave")
	assert.Contains(t, out, "  - /b/brave")
	assert.Contains(t, out, "ERROR: Brave browser not found!")
	assert.Contains(t, out, "https://brave.com/download/")
	assert.Contains(t, out, "--browser-path")
}

func TestApp_LaunchFailure(t *testing.T) {
	h := newAppHarness(t)
	h.launcher.Err = errors.New("profile locked")

	code := h.app.Run(context.Background())

	assert.Equal(t, ExitFailure, code)
	out := h.out.String()
	assert.Contains(t, out, "Error setting up Brave browser: profile locked")
	assert.Contains(t, out, "Troubleshooting tips:")
}

func TestApp_SetupFailure(t *testing.T) {
	h := newAppHarness(t)
	h.driver.NewTabErr = errors.New("target closed")

	code := h.app.Run(context.Background())

	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, 1, h.driver.CloseCalls)
	out := h.out.String()
	assert.Contains(t, out, "[ERROR] Failed to setup timer tabs.")
	assert.Contains(t, out, config.DefaultTimerURL)
	assert.Zero(t, h.app.Cycles())
}

func TestApp_InterruptedDuringSession(t *testing.T) {
	h := newAppHarness(t)
	h.cfg.MaxCycles = 0
	h.driver.CloseErr = errors.New("browser already exited")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.clock.onSleep = func(d time.Duration) {
		if d == h.cfg.Delays.Tick {
			cancel()
		}
	}

	code := h.app.Run(ctx)

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, 1, h.driver.CloseCalls)
	out := h.out.String()
	assert.Contains(t, out, "Pomodoro automation stopped by user")
	assert.Contains(t, out, "Total cycles completed: 0")
	assert.Contains(t, out, "Goodbye!")
}

func TestApp_Bundled(t *testing.T) {
	h := newAppHarness(t)
	h.cfg.Browser.Bundled = true
	h.app.Locator = nil

	code := h.app.Run(context.Background())

	assert.Equal(t, ExitOK, code)
	require.Len(t, h.launcher.Launches, 1)
	assert.Empty(t, h.launcher.Launches[0].ExecutablePath)
	assert.Contains(t, h.out.String(), "CHROMIUM EDITION")
}

func TestLocatorFor(t *testing.T) {
	loc := LocatorFor(config.BrowserConfig{
		Product:        config.ProductChrome,
		ExecutablePath: "/custom/chrome",
	})

	candidates := loc.Candidates()
	require.NotEmpty(t, candidates)
	assert.Equal(t, "/custom/chrome", candidates[0])
}

func TestBrowserName(t *testing.T) {
	assert.Equal(t, "Brave", BrowserName(config.ProductBrave))
	assert.Equal(t, "Chrome", BrowserName(config.ProductChrome))
	assert.Equal(t, "Chromium", BrowserName(config.ProductChromium))
	assert.Equal(t, "edge", BrowserName("edge"))
}

func TestApp_PanicBecomesFailure(t *testing.T) {
	h := newAppHarness(t)
	h.driver.Configure = func(tab *browsertest.Tab) {
		panic("driver connection reset")
	}

	var code int
	require.NotPanics(t, func() { code = h.app.Run(context.Background()) })

	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, 1, h.driver.CloseCalls)
	out := h.out.String()
	assert.Contains(t, out, "Unexpected error: driver connection reset")
	assert.Less(t, strings.Index(out, "Goodbye!"), strings.Index(out, "Unexpected error"))
}

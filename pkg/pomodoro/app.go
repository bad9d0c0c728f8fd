package pomodoro

import (
	"context"
	"errors"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/entrhq/pomo/pkg/browser"
	"github.com/entrhq/pomo/pkg/config"
	"github.com/entrhq/pomo/pkg/console"
	"github.com/entrhq/pomo/pkg/logging"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
)

var installURLs = map[string]string{
	config.ProductBrave:    "https://brave.com/download/",
	config.ProductChrome:   "https://www.google.com/chrome/",
	config.ProductChromium: "https://www.chromium.org/getting-involved/download-chromium/",
}

// BrowserName returns the display name of a browser product.
func BrowserName(product string) string {
	switch product {
	case config.ProductBrave:
		return "Brave"
	case config.ProductChrome:
		return "Chrome"
	case config.ProductChromium:
		return "Chromium"
	default:
		return product
	}
}

// LocatorFor returns the default locator for cfg: the configured executable
// path first, then the platform candidates for the product.
func LocatorFor(cfg config.BrowserConfig) *browser.PathLocator {
	paths := browser.DefaultCandidates(cfg.Product)
	if cfg.ExecutablePath != "" {
		paths = append([]string{cfg.ExecutablePath}, paths...)
	}
	return browser.NewPathLocator(paths)
}

// App runs one pomo process: acquire a browser, prepare the tabs, loop, and
// tear down.
type App struct {
	Config   *config.Config
	Launcher browser.Launcher

	// Locator defaults to LocatorFor(Config.Browser)
	Locator browser.Locator

	// Clock defaults to RealClock
	Clock Clock

	// Console defaults to stdout
	Console *console.Printer

	// Log defaults to discarding
	Log Logger

	state *State
}

func (a *App) defaults() {
	if a.Clock == nil {
		a.Clock = RealClock{}
	}
	if a.Console == nil {
		a.Console = console.New(os.Stdout, a.Clock.Now)
	}
	if a.Log == nil {
		a.Log = logging.NewWriter("pomodoro", io.Discard)
	}
	if a.Locator == nil && !a.Config.Browser.Bundled {
		a.Locator = LocatorFor(a.Config.Browser)
	}
}

// Cycles returns the number of completed cycles of the last Run.
func (a *App) Cycles() int {
	if a.state == nil {
		return 0
	}
	return a.state.Cycles
}

// Run executes the whole lifecycle and returns the process exit code.
// Cancelling ctx is the normal way to stop; it yields ExitOK after teardown.
// A panic below Run is reported and turned into ExitFailure once the browser
// has been released.
func (a *App) Run(ctx context.Context) (code int) {
	a.defaults()
	defer func() {
		if r := recover(); r != nil {
			a.Log.Errorf("panic: %v\n%s", r, debug.Stack())
			a.Console.Errorf("Unexpected error: %v", r)
			code = ExitFailure
		}
	}()

	out := a.Console
	name := a.browserName()
	started := a.Clock.Now()

	out.Banner("POMODORO TIMER AUTOMATION - " + strings.ToUpper(name) + " EDITION")
	out.Infof("Initializing %s browser...", name)

	path, err := a.acquireBrowser()
	if err != nil {
		a.reportNotFound(err)
		return ExitFailure
	}

	out.Infof("Starting %s browser...", name)
	driver, err := a.Launcher.Launch(ctx, browser.LaunchOptions{
		ExecutablePath: path,
		Headless:       a.Config.Browser.Headless,
	})
	if err != nil {
		if ctx.Err() != nil {
			out.Infof("Pomodoro automation stopped by user")
			return ExitOK
		}
		a.Log.Errorf("launch failed: %v", err)
		a.reportLaunchFailure(err)
		return ExitFailure
	}
	out.Infof("%s browser initialized successfully!", name)

	orch := NewOrchestrator(Options{
		Config:      a.Config,
		Driver:      driver,
		Clock:       a.Clock,
		Console:     out,
		Log:         a.Log,
		BrowserName: name,
	})
	defer orch.Close()

	st, err := orch.Setup(ctx)
	if err != nil {
		if ctx.Err() != nil {
			out.Infof("Pomodoro automation stopped by user")
			return ExitOK
		}
		a.Log.Errorf("setup failed: %v", err)
		a.reportSetupFailure(err)
		return ExitFailure
	}
	a.state = st

	code = ExitOK
	err = orch.Loop(ctx, st)
	switch {
	case err == nil:
		out.Blank()
		out.Infof("Reached %d completed cycles, stopping", st.Cycles)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		out.Blank()
		out.Infof("Pomodoro automation stopped by user")
	default:
		out.Blank()
		out.Errorf("Unexpected error: %v", err)
		a.Log.Errorf("loop aborted: %v", err)
		code = ExitFailure
	}

	out.Infof("Total cycles completed: %d", st.Cycles)
	out.Infof("Started %s (%s)", started.Format(console.TimestampFormat),
		humanize.RelTime(started, a.Clock.Now(), "ago", "from now"))
	return code
}

func (a *App) browserName() string {
	if a.Config.Browser.Bundled {
		return BrowserName(config.ProductChromium)
	}
	return BrowserName(a.Config.Browser.Product)
}

// acquireBrowser resolves the executable path. An empty path with a nil
// error means the bundled browser.
func (a *App) acquireBrowser() (string, error) {
	if a.Config.Browser.Bundled {
		a.Console.Infof("Using Playwright's bundled Chromium")
		return "", nil
	}

	path, ok := a.Locator.FindExecutable()
	if !ok {
		return "", browser.NewNotFoundError(a.Config.Browser.Product, a.Locator.Candidates())
	}
	a.Console.Infof("Found %s at: %s", a.browserName(), path)
	a.Log.Infof("browser executable %s", path)
	return path, nil
}

func (a *App) reportNotFound(err error) {
	out := a.Console
	name := a.browserName()

	out.Infof("%s browser not found in standard locations", name)
	out.Infof("Searched paths:")
	var nf *browser.NotFoundError
	if errors.As(err, &nf) {
		for _, p := range nf.Candidates {
			out.Plainf("  - %s", p)
		}
	}

	out.Blank()
	out.Errorf("ERROR: %s browser not found!", name)
	out.Blank()
	if url, ok := installURLs[a.Config.Browser.Product]; ok {
		out.Plainf("Please install %s browser from: %s", name, url)
	}
	out.Plainf("If %s is installed in a custom location, set browser.executable_path", name)
	out.Plainf("in the config file or pass --browser-path.")
	out.Plainf("To use Playwright's own Chromium instead, pass --bundled.")
}

func (a *App) reportLaunchFailure(err error) {
	out := a.Console
	name := a.browserName()

	out.Errorf("Error setting up %s browser: %v", name, err)
	out.Blank()
	out.Plainf("Troubleshooting tips:")
	out.Plainf("1. Ensure %s browser is installed", name)
	out.Plainf("2. Try closing all %s windows and run again", name)
	out.Plainf("3. Check if antivirus is blocking the connection")
}

func (a *App) reportSetupFailure(err error) {
	out := a.Console

	out.Errorf("Error setting up tabs: %v", err)
	out.Blank()
	out.Plainf("[ERROR] Failed to setup timer tabs.")
	out.Blank()
	out.Plainf("Please ensure:")
	out.Plainf("1. The timer page is reachable: %s", a.Config.TimerURL)
	out.Plainf("2. No other automation session is holding the %s profile", a.browserName())
}

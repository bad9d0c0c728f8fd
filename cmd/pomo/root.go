package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/entrhq/pomo/pkg/browser"
	"github.com/entrhq/pomo/pkg/config"
	"github.com/entrhq/pomo/pkg/console"
	"github.com/entrhq/pomo/pkg/logging"
	"github.com/entrhq/pomo/pkg/pomodoro"
)

var version = "dev" // set via ldflags at build time

// flagValues holds the command-line overrides for the loaded config.
type flagValues struct {
	configPath  string
	url         string
	product     string
	browserPath string
	work        int
	brk         int
	cycles      int
	headless    bool
	bundled     bool
}

type rootCmd struct {
	cmd   *cobra.Command
	flags flagValues

	// run is swapped out in tests
	run func(ctx context.Context, cfg *config.Config, stdout io.Writer) int

	code int
}

func newRootCmd() *rootCmd {
	r := &rootCmd{run: runApp}

	r.cmd = &cobra.Command{
		Use:   "pomo",
		Short: "Automates a browser timer through Pomodoro work and break sessions",
		Long: `pomo opens the timer page in two tabs of a Chromium-based browser,
one for work and one for break, and keeps switching between them:
reset, set the duration, press start and wait, forever or until --cycles
cycles have completed. Press Ctrl+C to stop.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := r.loadConfig(cmd)
			if err != nil {
				r.code = pomodoro.ExitFailure
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)
			go watchSignals(ctx, cancel, sigChan)

			r.code = r.run(ctx, cfg, cmd.OutOrStdout())
			return nil
		},
	}

	f := r.cmd.PersistentFlags()
	f.StringVarP(&r.flags.configPath, "config", "c", "", "Path to configuration file (YAML)")
	f.IntVar(&r.flags.work, "work", config.DefaultWorkMinutes, "Work session length in minutes")
	f.IntVar(&r.flags.brk, "break", config.DefaultBreakMinutes, "Break session length in minutes")
	f.StringVar(&r.flags.url, "url", config.DefaultTimerURL, "Timer page URL")
	f.BoolVar(&r.flags.headless, "headless", false, "Run the browser without a window")
	f.BoolVar(&r.flags.bundled, "bundled", false, "Use Playwright's bundled Chromium instead of an installed browser")
	f.StringVar(&r.flags.product, "browser", config.ProductBrave, "Browser to drive: brave, chrome or chromium")
	f.StringVar(&r.flags.browserPath, "browser-path", "", "Browser executable, tried before the standard locations")
	f.IntVar(&r.flags.cycles, "cycles", 0, "Stop after this many completed cycles (0 runs until interrupted)")

	r.cmd.AddCommand(r.newLocateCmd())
	r.cmd.AddCommand(newVersionCmd())
	return r
}

// watchSignals cancels the run on the first signal and then unregisters
// sigChan, so a second interrupt gets the default behaviour and kills a
// shutdown that hangs.
func watchSignals(ctx context.Context, cancel context.CancelFunc, sigChan chan os.Signal) {
	select {
	case <-sigChan:
		signal.Stop(sigChan)
		cancel()
	case <-ctx.Done():
	}
}

// execute runs the command and returns the process exit code.
func (r *rootCmd) execute() (int, error) {
	if err := r.cmd.Execute(); err != nil {
		if r.code == pomodoro.ExitOK {
			r.code = pomodoro.ExitFailure
		}
		return r.code, err
	}
	return r.code, nil
}

// loadConfig reads the config file and applies the flags the user set.
// Flags left at their defaults never override the file.
func (r *rootCmd) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(r.flags.configPath)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("work") {
		cfg.WorkMinutes = r.flags.work
	}
	if f.Changed("break") {
		cfg.BreakMinutes = r.flags.brk
	}
	if f.Changed("url") {
		cfg.TimerURL = r.flags.url
	}
	if f.Changed("cycles") {
		cfg.MaxCycles = r.flags.cycles
	}
	if f.Changed("browser") {
		cfg.Browser.Product = r.flags.product
	}
	if f.Changed("browser-path") {
		cfg.Browser.ExecutablePath = r.flags.browserPath
	}
	if f.Changed("headless") {
		cfg.Browser.Headless = r.flags.headless
	}
	if f.Changed("bundled") {
		cfg.Browser.Bundled = r.flags.bundled
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runApp(ctx context.Context, cfg *config.Config, stdout io.Writer) int {
	logger, err := logging.New("pomo", cfg.Logging.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logger.Close()
	logger.Infof("pomo %s starting, run %s", version, logging.RunID())

	app := &pomodoro.App{
		Config:   cfg,
		Launcher: &browser.PlaywrightLauncher{Output: logWriter{logger}},
		Console:  console.New(stdout, time.Now),
		Log:      logger,
	}
	code := app.Run(ctx)
	logger.Infof("exiting with code %d after %d cycles", code, app.Cycles())
	return code
}

// logWriter forwards Playwright driver output into the debug log.
type logWriter struct {
	log *logging.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.log.Debugf("playwright: %s", p)
	return len(p), nil
}

func (r *rootCmd) newLocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Show where pomo looks for the browser and which executable it would use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := r.loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			loc := pomodoro.LocatorFor(cfg.Browser)
			name := pomodoro.BrowserName(cfg.Browser.Product)

			fmt.Fprintf(out, "Candidates for %s:\n", name)
			for _, p := range loc.Candidates() {
				fmt.Fprintf(out, "  - %s\n", p)
			}

			path, ok := loc.FindExecutable()
			if !ok {
				return browser.NewNotFoundError(cfg.Browser.Product, loc.Candidates())
			}
			fmt.Fprintf(out, "Using: %s\n", path)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pomo version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pomo %s\n", version)
		},
	}
}

package pomodoro

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/pomo/pkg/browser"
	"github.com/entrhq/pomo/pkg/config"
	"github.com/entrhq/pomo/pkg/console"
	"github.com/entrhq/pomo/pkg/timerpage"
)

// Logger receives the debug trail. *logging.Logger implements it.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

// State is everything the loop carries between iterations.
type State struct {
	Work  *Session
	Break *Session

	// Cycles counts completed Work+Break pairs
	Cycles int
}

// Options configures an Orchestrator.
type Options struct {
	Config  *config.Config
	Driver  browser.Driver
	Clock   Clock
	Console *console.Printer
	Log     Logger

	// BrowserName is shown in the run header and teardown message
	BrowserName string

	// Starter overrides the start-control strategies; it is copied, not modified
	Starter *timerpage.Starter
}

// Orchestrator drives the two timer tabs through the work/break rhythm.
// It owns the browser driver until Close.
type Orchestrator struct {
	cfg     *config.Config
	driver  browser.Driver
	clock   Clock
	out     *console.Printer
	log     Logger
	name    string
	starter *timerpage.Starter

	closeOnce sync.Once
}

// NewOrchestrator creates an orchestrator around an already launched driver.
func NewOrchestrator(opts Options) *Orchestrator {
	o := &Orchestrator{
		cfg:     opts.Config,
		driver:  opts.Driver,
		clock:   opts.Clock,
		out:     opts.Console,
		log:     opts.Log,
		name:    opts.BrowserName,
	}
	if opts.Starter != nil {
		starter := *opts.Starter
		o.starter = &starter
	} else {
		o.starter = &timerpage.Starter{
			Strategies: timerpage.DefaultStartStrategies(o.cfg.Delays.StartTimeout),
		}
	}
	if o.starter.OnFailure == nil {
		o.starter.OnFailure = func(strategy string, err error) {
			o.log.Debugf("start strategy %s failed: %v", strategy, err)
		}
	}
	return o
}

// pause sleeps for each delay in turn.
func (o *Orchestrator) pause(ctx context.Context, delays ...time.Duration) error {
	for _, d := range delays {
		if err := o.clock.Sleep(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// Setup opens the work tab and the break tab, both pointed at the timer page,
// and leaves the work tab focused.
func (o *Orchestrator) Setup(ctx context.Context) (*State, error) {
	d := o.cfg.Delays
	o.out.Infof("Setting up timer tabs...")

	o.out.Infof("Loading work timer tab...")
	workTab, err := o.driver.NewTab()
	if err != nil {
		return nil, &SetupError{Step: "opening work tab", Err: err}
	}
	if err := workTab.Navigate(o.cfg.TimerURL); err != nil {
		return nil, &SetupError{Step: "loading work tab", Err: err}
	}
	if err := o.pause(ctx, d.PageLoad); err != nil {
		return nil, err
	}
	o.log.Infof("work tab %s loaded %s", workTab.ID(), o.cfg.TimerURL)
	o.out.Infof("Work timer tab created")

	o.out.Infof("Creating break timer tab...")
	breakTab, err := o.driver.NewTab()
	if err != nil {
		return nil, &SetupError{Step: "opening break tab", Err: err}
	}
	if err := o.pause(ctx, d.TabOpen); err != nil {
		return nil, err
	}
	o.out.Infof("Loading break timer tab...")
	if err := breakTab.Navigate(o.cfg.TimerURL); err != nil {
		return nil, &SetupError{Step: "loading break tab", Err: err}
	}
	if err := o.pause(ctx, d.PageLoad); err != nil {
		return nil, err
	}
	o.log.Infof("break tab %s loaded %s", breakTab.ID(), o.cfg.TimerURL)
	o.out.Infof("Break timer tab created")

	if err := workTab.Focus(); err != nil {
		return nil, &SetupError{Step: "switching to work tab", Err: err}
	}

	o.out.Infof("Both timer tabs ready!")
	return &State{
		Work:  &Session{Kind: Work, Minutes: o.cfg.WorkMinutes, Tab: workTab},
		Break: &Session{Kind: Break, Minutes: o.cfg.BreakMinutes, Tab: breakTab},
	}, nil
}

// RunSession resets the session's tab, sets its duration, presses start and
// then waits s.Minutes ticks, printing one progress marker per tick.
//
// Only a failure to focus the tab is reported as a *SessionError; reload,
// duration and start problems are printed as warnings and the session carries
// on. A cancelled context is returned as is.
func (o *Orchestrator) RunSession(ctx context.Context, s *Session) error {
	d := o.cfg.Delays
	o.out.Section(s.Title())
	o.log.Infof("%s session starting on %s (%d min)", s.Kind, s.Tab.ID(), s.Minutes)

	if err := s.Tab.Focus(); err != nil {
		o.out.Errorf("Error switching tabs: %v", err)
		return &SessionError{Kind: s.Kind, Step: "switching tabs", Err: err}
	}
	if err := o.pause(ctx, d.Focus, d.PreReset); err != nil {
		return err
	}

	if err := s.Tab.Reload(); err != nil {
		o.out.Warnf("Could not reset timer: %v", err)
		o.log.Warnf("reload of %s failed: %v", s.Tab.ID(), err)
	}
	if err := o.pause(ctx, d.Reload, d.PostReset, d.PreSet); err != nil {
		return err
	}

	method, err := timerpage.SetDuration(s.Tab, timerpage.Minutes(s.Minutes))
	if err != nil {
		o.log.Warnf("set duration on %s: %v", s.Tab.ID(), err)
		o.out.Warnf("Could not set timer duration, using default")
	} else {
		o.log.Debugf("duration set on %s via %s", s.Tab.ID(), method)
		o.out.Infof("Timer set to %d minutes", s.Minutes)
	}
	if err := o.pause(ctx, d.PostSet, d.PreStart); err != nil {
		return err
	}

	strategy, err := o.starter.Start(s.Tab)
	switch {
	case err == nil:
		o.log.Debugf("timer started on %s via %s", s.Tab.ID(), strategy)
		o.out.Infof("Timer started")
	case errors.Is(err, timerpage.ErrNoStartControl):
		o.out.Infof("Could not find start button, timer may already be running")
	default:
		o.log.Warnf("start on %s: %v", s.Tab.ID(), err)
		o.out.Warnf("Could not start timer automatically")
	}

	o.out.Infof("%s session active (%d minutes)", s.Label(), s.Minutes)
	completion := o.clock.Now().Add(time.Duration(s.Minutes) * d.Tick)
	o.out.Infof("Expected completion: %s", completion.Format(console.TimestampFormat))

	o.out.BeginProgress()
	for i := 0; i < s.Minutes; i++ {
		o.out.Tick()
		if err := o.clock.Sleep(ctx, d.Tick); err != nil {
			return err
		}
	}
	o.out.EndProgress(" Done!")

	o.out.Infof("%s session completed!", s.Label())
	o.log.Infof("%s session completed", s.Kind)
	return nil
}

// Loop alternates work and break sessions until ctx is cancelled, or until
// MaxCycles cycles have completed when it is positive.
//
// A failed session backs off for the retry delay and restarts the cycle from
// the work session. The cycle counter in st only moves when both sessions of
// a pair complete.
func (o *Orchestrator) Loop(ctx context.Context, st *State) error {
	o.out.Blank()
	o.out.Infof("Starting Pomodoro automation loop...")
	o.out.Infof("Browser: %s", o.name)
	o.out.Infof("Work: %d min | Break: %d min", st.Work.Minutes, st.Break.Minutes)
	o.out.Infof("Press Ctrl+C to stop")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if o.cfg.MaxCycles > 0 && st.Cycles >= o.cfg.MaxCycles {
			return nil
		}

		o.out.Rule(fmt.Sprintf("POMODORO CYCLE #%d", st.Cycles+1))

		if err := o.runCycle(ctx, st); err != nil {
			var serr *SessionError
			if !errors.As(err, &serr) {
				return err
			}
			o.log.Warnf("cycle %d: %v", st.Cycles+1, err)
			o.out.Errorf("Error in %s timer, retrying...", serr.Kind)
			if err := o.clock.Sleep(ctx, o.cfg.Delays.Retry); err != nil {
				return err
			}
			continue
		}

		st.Cycles++
		o.log.Infof("cycle %d completed", st.Cycles)
		o.out.Blank()
		o.out.Successf("Cycle #%d completed successfully!", st.Cycles)
	}
}

func (o *Orchestrator) runCycle(ctx context.Context, st *State) error {
	for _, s := range []*Session{st.Work, st.Break} {
		if err := o.RunSession(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the browser. It runs once; later calls do nothing.
// Teardown errors are logged and otherwise ignored.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		o.out.Blank()
		o.out.Infof("Cleaning up...")
		if err := o.driver.Close(); err != nil {
			o.log.Warnf("teardown: %v", err)
		}
		o.out.Infof("%s browser closed. Goodbye!", o.name)
	})
}

package timerpage

import (
	"errors"
	"fmt"
	"time"

	"github.com/entrhq/pomo/pkg/browser"
)

// ErrNoStartControl is returned when no strategy found a start control.
// The timer may already be running, so callers usually carry on.
var ErrNoStartControl = errors.New("no start control found")

// StartStrategy is one way of locating and pressing the start control.
// Try reports true once it has clicked something; false with a nil error
// means this strategy found nothing to press.
type StartStrategy struct {
	Name string
	Try  func(tab browser.Tab) (bool, error)
}

// startScript clicks the first enabled button-like element whose text or
// value mentions "start", then falls back to page-level start functions.
const startScript = `() => {
	const controls = document.querySelectorAll('button, input[type="button"], input[type="submit"]');
	for (const control of controls) {
		const text = (control.textContent || '').toLowerCase();
		const value = (control.value || '').toLowerCase();
		if ((text.includes('start') || value.includes('start')) && !control.disabled) {
			control.click();
			return true;
		}
	}
	if (typeof startTimer === 'function') {
		startTimer();
		return true;
	}
	if (typeof start === 'function') {
		start();
		return true;
	}
	return false;
}`

// startXPaths are tried in order; each waits for the element to be clickable.
var startXPaths = []string{
	"xpath=//button[contains(translate(normalize-space(.), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), 'start') and not(@disabled)]",
	"xpath=//input[(@type='button' or @type='submit') and contains(translate(@value, 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), 'start') and not(@disabled)]",
	"xpath=//button[contains(@class, 'start')]",
	"xpath=//button[contains(@id, 'start')]",
}

// ScriptStrategy presses the start control from a page script.
func ScriptStrategy() StartStrategy {
	return StartStrategy{
		Name: "script",
		Try: func(tab browser.Tab) (bool, error) {
			result, err := tab.Evaluate(startScript, nil)
			if err != nil {
				return false, err
			}
			clicked, _ := result.(bool)
			return clicked, nil
		},
	}
}

// XPathStrategy clicks the first XPath match that becomes clickable within
// timeout. Selectors that time out are skipped.
func XPathStrategy(timeout time.Duration) StartStrategy {
	return StartStrategy{
		Name: "xpath",
		Try: func(tab browser.Tab) (bool, error) {
			for _, selector := range startXPaths {
				if err := tab.Click(selector, timeout); err == nil {
					return true, nil
				}
			}
			return false, nil
		},
	}
}

// MarkupStrategy parses a snapshot of the page HTML, derives a selector for
// the start control and clicks it.
func MarkupStrategy(timeout time.Duration) StartStrategy {
	return StartStrategy{
		Name: "markup",
		Try: func(tab browser.Tab) (bool, error) {
			doc, err := tab.Content()
			if err != nil {
				return false, err
			}
			selector, ok, err := FindStartControl(doc)
			if err != nil || !ok {
				return false, err
			}
			if err := tab.Click(selector, timeout); err != nil {
				return false, fmt.Errorf("clicking %s: %w", selector, err)
			}
			return true, nil
		},
	}
}

// DefaultStartStrategies returns the script, XPath and markup strategies in
// that order.
func DefaultStartStrategies(timeout time.Duration) []StartStrategy {
	return []StartStrategy{
		ScriptStrategy(),
		XPathStrategy(timeout),
		MarkupStrategy(timeout),
	}
}

// Starter runs start strategies in order until one succeeds.
type Starter struct {
	Strategies []StartStrategy

	// OnFailure, when set, is told about every strategy that returned an error
	OnFailure func(strategy string, err error)
}

// Start returns the name of the strategy that pressed start.
//
// When every strategy failed with an error, the joined errors are returned.
// When at least one strategy ran cleanly but nothing was pressed, the error
// is ErrNoStartControl.
func (s *Starter) Start(tab browser.Tab) (string, error) {
	var errs []error
	for _, strategy := range s.Strategies {
		ok, err := strategy.Try(tab)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", strategy.Name, err))
			if s.OnFailure != nil {
				s.OnFailure(strategy.Name, err)
			}
			continue
		}
		if ok {
			return strategy.Name, nil
		}
	}

	if len(s.Strategies) > 0 && len(errs) == len(s.Strategies) {
		return "", fmt.Errorf("failed to start timer: %w", errors.Join(errs...))
	}
	return "", ErrNoStartControl
}

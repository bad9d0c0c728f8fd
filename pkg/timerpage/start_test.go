package timerpage

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pomo/pkg/browser"
	"github.com/entrhq/pomo/pkg/browser/browsertest"
)

func fixed(name string, ok bool, err error) StartStrategy {
	return StartStrategy{
		Name: name,
		Try: func(browser.Tab) (bool, error) {
			return ok, err
		},
	}
}

func TestStarter_Start(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name         string
		strategies   []StartStrategy
		wantStrategy string
		wantNoCtrl   bool
		wantErr      string
		wantFailures []string
	}{
		{
			name:         "first strategy wins",
			strategies:   []StartStrategy{fixed("a", true, nil), fixed("b", true, nil)},
			wantStrategy: "a",
		},
		{
			name:         "falls through errors and misses",
			strategies:   []StartStrategy{fixed("a", false, boom), fixed("b", false, nil), fixed("c", true, nil)},
			wantStrategy: "c",
			wantFailures: []string{"a"},
		},
		{
			name:         "nothing found",
			strategies:   []StartStrategy{fixed("a", false, nil), fixed("b", false, boom)},
			wantNoCtrl:   true,
			wantFailures: []string{"b"},
		},
		{
			name:         "every strategy errors",
			strategies:   []StartStrategy{fixed("a", false, boom), fixed("b", false, boom)},
			wantErr:      "failed to start timer",
			wantFailures: []string{"a", "b"},
		},
		{
			name:       "no strategies",
			wantNoCtrl: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var failures []string
			s := &Starter{
				Strategies: tt.strategies,
				OnFailure: func(strategy string, err error) {
					failures = append(failures, strategy)
				},
			}

			got, err := s.Start(&browsertest.Tab{})
			assert.Equal(t, tt.wantStrategy, got)
			assert.Equal(t, tt.wantFailures, failures)

			switch {
			case tt.wantNoCtrl:
				assert.ErrorIs(t, err, ErrNoStartControl)
			case tt.wantErr != "":
				require.Error(t, err)
				assert.NotErrorIs(t, err, ErrNoStartControl)
				assert.Contains(t, err.Error(), tt.wantErr)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestScriptStrategy(t *testing.T) {
	tests := []struct {
		name   string
		result interface{}
		err    error
		wantOK bool
	}{
		{name: "clicked", result: true, wantOK: true},
		{name: "not found", result: false},
		{name: "unexpected result type", result: "yes"},
		{name: "script error", err: errors.New("csp")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab := &browsertest.Tab{
				EvaluateFunc: func(string, interface{}) (interface{}, error) {
					return tt.result, tt.err
				},
			}
			ok, err := ScriptStrategy().Try(tab)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.err, err)
		})
	}
}

func TestXPathStrategy(t *testing.T) {
	t.Run("clicks first clickable selector", func(t *testing.T) {
		var timeouts []time.Duration
		tab := &browsertest.Tab{
			ClickFunc: func(selector string, timeout time.Duration) error {
				timeouts = append(timeouts, timeout)
				if strings.Contains(selector, "@class") {
					return nil
				}
				return errors.New("timeout")
			},
		}

		ok, err := XPathStrategy(5 * time.Second).Try(tab)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Len(t, tab.Clicks, 3)
		for _, sel := range tab.Clicks {
			assert.True(t, strings.HasPrefix(sel, "xpath=//"))
		}
		assert.Equal(t, 5*time.Second, timeouts[0])
	})

	t.Run("nothing clickable", func(t *testing.T) {
		tab := &browsertest.Tab{
			ClickFunc: func(string, time.Duration) error { return errors.New("timeout") },
		}
		ok, err := XPathStrategy(time.Second).Try(tab)
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Len(t, tab.Clicks, len(startXPaths))
	})
}

func TestMarkupStrategy(t *testing.T) {
	t.Run("clicks derived selector", func(t *testing.T) {
		tab := &browsertest.Tab{
			ContentFunc: func() (string, error) {
				return `<html><body><button id="btn-go">Start timer</button></body></html>`, nil
			},
		}
		ok, err := MarkupStrategy(time.Second).Try(tab)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{`[id="btn-go"]`}, tab.Clicks)
	})

	t.Run("no control in markup", func(t *testing.T) {
		tab := &browsertest.Tab{
			ContentFunc: func() (string, error) {
				return `<html><body><button>Reset</button></body></html>`, nil
			},
		}
		ok, err := MarkupStrategy(time.Second).Try(tab)
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, tab.Clicks)
	})

	t.Run("content error", func(t *testing.T) {
		tab := &browsertest.Tab{
			ContentFunc: func() (string, error) { return "", errors.New("detached") },
		}
		ok, err := MarkupStrategy(time.Second).Try(tab)
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("click error", func(t *testing.T) {
		tab := &browsertest.Tab{
			ContentFunc: func() (string, error) {
				return `<button>START</button>`, nil
			},
			ClickFunc: func(string, time.Duration) error { return errors.New("covered") },
		}
		ok, err := MarkupStrategy(time.Second).Try(tab)
		require.Error(t, err)
		assert.False(t, ok)
		assert.Contains(t, err.Error(), `button:has-text("START")`)
	})
}

func TestDefaultStartStrategies(t *testing.T) {
	var names []string
	for _, s := range DefaultStartStrategies(time.Second) {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"script", "xpath", "markup"}, names)
}

package pomodoro

import (
	"github.com/entrhq/pomo/pkg/browser"
)

// Kind identifies a session type.
type Kind string

const (
	// Work is a focused work interval
	Work Kind = "work"
	// Break is a rest interval
	Break Kind = "break"
)

// Session is one of the two fixed intervals and the tab that times it.
type Session struct {
	Kind    Kind
	Minutes int
	Tab     browser.Tab
}

// Title returns the upper-case label used in section banners.
func (s *Session) Title() string {
	switch s.Kind {
	case Work:
		return "WORK SESSION STARTING"
	case Break:
		return "BREAK SESSION STARTING"
	default:
		return string(s.Kind) + " SESSION STARTING"
	}
}

// Label returns "Work" or "Break".
func (s *Session) Label() string {
	switch s.Kind {
	case Work:
		return "Work"
	case Break:
		return "Break"
	default:
		return string(s.Kind)
	}
}

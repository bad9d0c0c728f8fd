package pomodoro

import "fmt"

// SetupError is a fatal failure while preparing the timer tabs.
type SetupError struct {
	Step string
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup failed while %s: %v", e.Step, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// SessionError is a soft failure of one session; the loop logs it, backs off
// and starts the cycle again.
type SessionError struct {
	Kind Kind
	Step string
	Err  error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("%s session failed while %s: %v", e.Kind, e.Step, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

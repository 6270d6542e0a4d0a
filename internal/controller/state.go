// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package controller

// State is the experiment lifecycle state as seen by the controller. Running
// is the only state that self-loops on a poll tick; every other state is
// terminal.
type State int

const (
	NotStarted State = iota
	Running
	Done
	Stopped
	TimedOut
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Running:
		return "running"
	case Done:
		return "done"
	case Stopped:
		return "stopped"
	case TimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state admits no further transitions.
func (s State) Terminal() bool {
	return s == Done || s == Stopped || s == TimedOut
}

// Next is the pure poll transition: it maps the current state and one polled
// status to the next state, independent of any sleep mechanism. Terminal
// states absorb every poll. An absent experiment (StatusNone) while waiting
// counts as stopped, since the tool will never reach DONE.
func Next(s State, status string) State {
	if s.Terminal() {
		return s
	}
	switch status {
	case StatusDone:
		return Done
	case StatusError, StatusStopped, StatusNone:
		return Stopped
	default:
		return Running
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package controller

import "testing"

func TestNext(t *testing.T) {
	tests := []struct {
		name   string
		state  State
		status string
		want   State
	}{
		{"running stays running", Running, StatusRunning, Running},
		{"running to done", Running, StatusDone, Done},
		{"running to stopped on error", Running, StatusError, Stopped},
		{"running to stopped on stop", Running, StatusStopped, Stopped},
		{"running to stopped when experiment vanishes", Running, StatusNone, Stopped},
		{"not started to running", NotStarted, StatusRunning, Running},
		{"not started to done", NotStarted, StatusDone, Done},
		{"intermediate status counts as running", Running, "TUNER_NO_MORE_TRIAL", Running},
		{"done absorbs polls", Done, StatusRunning, Done},
		{"stopped absorbs polls", Stopped, StatusDone, Stopped},
		{"timed out absorbs polls", TimedOut, StatusDone, TimedOut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Next(tt.state, tt.status); got != tt.want {
				t.Errorf("Next(%v, %q) = %v, want %v", tt.state, tt.status, got, tt.want)
			}
		})
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []State{Done, Stopped, TimedOut} {
		if !s.Terminal() {
			t.Errorf("%v should be terminal", s)
		}
	}
	for _, s := range []State{NotStarted, Running} {
		if s.Terminal() {
			t.Errorf("%v should not be terminal", s)
		}
	}
}

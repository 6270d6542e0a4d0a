// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package controller drives the external tuning tool through its CLI:
// creating and stopping experiments, and polling status until a terminal
// state or an exhausted retry budget. The tool itself parallelizes trials;
// this controller is single-threaded and blocking, managing only the
// lifecycle of the whole experiment.
package controller

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/pdiddy/tunebench/pkg/types"
)

// Experiment status values reported by the external tool, normalized by
// Backend implementations.
const (
	StatusRunning = "RUNNING"
	StatusDone    = "DONE"
	StatusError   = "ERROR"
	StatusStopped = "STOPPED"

	// StatusNone means no experiment is active at all.
	StatusNone = "NONE"
)

// Backend is the narrow adapter over the external tuning tool. The
// orchestration logic only ever talks to this interface, so it can be tested
// against a fake without spawning processes.
type Backend interface {
	// Create launches an experiment from the configuration document at
	// configPath.
	Create(configPath string) error

	// Stop halts the active experiment.
	Stop() error

	// Status reports the current experiment status, normalized to the
	// Status* constants.
	Status() (string, error)

	// Trials lists the experiment's trials in submission order. Only the
	// identifier and sequence are known to the tool; parameter and metric
	// records live in each trial's directory.
	Trials() ([]types.Trial, error)
}

// ProcessError reports an external tool invocation that exited non-zero.
// It is fatal and never retried.
type ProcessError struct {
	Tool   string
	Args   []string
	Output string
	Err    error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s %s failed: %v", e.Tool, strings.Join(e.Args, " "), e.Err)
	if e.Output != "" {
		msg += ": " + strings.TrimSpace(e.Output)
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }

// executor abstracts command execution for testing.
type executor interface {
	CombinedOutput(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) CombinedOutput(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// CLIBackend drives the tuning tool through its command-line binary
// (by default "nnictl").
type CLIBackend struct {
	tool string
	exec executor
}

// NewCLIBackend creates a backend for the given tool binary. An empty name
// selects the default.
func NewCLIBackend(tool string) *CLIBackend {
	if tool == "" {
		tool = "nnictl"
	}
	return &CLIBackend{tool: tool, exec: osExecutor{}}
}

func (b *CLIBackend) run(args ...string) ([]byte, error) {
	out, err := b.exec.CombinedOutput(b.tool, args...)
	if err != nil {
		return out, &ProcessError{Tool: b.tool, Args: args, Output: string(out), Err: err}
	}
	return out, nil
}

// Create runs the tool's create action with the configuration path.
func (b *CLIBackend) Create(configPath string) error {
	_, err := b.run("create", "--config", configPath)
	return err
}

// Stop runs the tool's stop action. Stopping when nothing is active is not
// an error; the tool reports that case on stdout.
func (b *CLIBackend) Stop() error {
	out, err := b.run("stop")
	if err != nil && strings.Contains(string(out), "No experiment") {
		return nil
	}
	return err
}

// statusReply is the tool's experiment-status JSON shape.
type statusReply struct {
	Status string   `json:"status"`
	Errors []string `json:"errors"`
}

// Status queries the tool for the experiment status. A reply indicating that
// no experiment is running maps to StatusNone.
func (b *CLIBackend) Status() (string, error) {
	out, err := b.run("experiment", "status")
	if err != nil {
		if strings.Contains(string(out), "No experiment") {
			return StatusNone, nil
		}
		return "", err
	}

	var reply statusReply
	if err := json.Unmarshal(out, &reply); err != nil {
		return "", fmt.Errorf("parsing %s status output: %w", b.tool, err)
	}
	return normalizeStatus(reply.Status), nil
}

// trialReply is one entry of the tool's trial-listing JSON.
type trialReply struct {
	ID       string `json:"trialJobId"`
	Sequence int    `json:"sequenceId"`
	Dir      string `json:"workingDirectory"`
}

// Trials lists the experiment's trials, sorted by submission sequence.
func (b *CLIBackend) Trials() ([]types.Trial, error) {
	out, err := b.run("trial", "ls", "--json")
	if err != nil {
		return nil, err
	}

	var replies []trialReply
	if err := json.Unmarshal(out, &replies); err != nil {
		return nil, fmt.Errorf("parsing %s trial listing: %w", b.tool, err)
	}

	trials := make([]types.Trial, 0, len(replies))
	for _, r := range replies {
		trials = append(trials, types.Trial{ID: r.ID, Sequence: r.Sequence, Dir: r.Dir})
	}
	sort.Slice(trials, func(i, j int) bool { return trials[i].Sequence < trials[j].Sequence })
	return trials, nil
}

// normalizeStatus folds the tool's many intermediate statuses into the
// Status* constants: only DONE, ERROR, and STOPPED are terminal, everything
// else counts as still running.
func normalizeStatus(s string) string {
	switch strings.ToUpper(s) {
	case StatusDone:
		return StatusDone
	case StatusError:
		return StatusError
	case StatusStopped:
		return StatusStopped
	case StatusNone:
		return StatusNone
	default:
		return StatusRunning
	}
}

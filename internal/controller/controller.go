// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package controller

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/tunebench/pkg/types"
)

// ErrPollTimeout reports that experiment status never reached a terminal
// state within the retry budget. The caller decides whether to restart the
// whole experiment.
var ErrPollTimeout = errors.New("status polling exhausted retry budget")

// Controller runs whole-experiment lifecycle operations against a Backend.
// All operations block the caller until the tool responds or the polling
// budget runs out.
type Controller struct {
	backend Backend
	cfg     types.ControllerConfig
	w       io.Writer

	// sleep is swapped out in tests to avoid real waiting.
	sleep func(time.Duration)
}

// New creates a controller over the given backend. Zero polling settings fall
// back to a 10 s interval and 60 attempts.
func New(backend Backend, cfg types.ControllerConfig, w io.Writer) *Controller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 60
	}
	return &Controller{backend: backend, cfg: cfg, w: w, sleep: time.Sleep}
}

// Start creates the experiment from the configuration document at configPath.
// A non-zero exit from the external tool propagates immediately.
func (c *Controller) Start(configPath string) error {
	fmt.Fprintf(c.w, "creating experiment from %s\n", configPath)
	if err := c.backend.Create(configPath); err != nil {
		return fmt.Errorf("creating experiment: %w", err)
	}
	return nil
}

// AwaitCompletion polls experiment status at the configured interval until
// the experiment is done, fails, or the attempt budget is spent. It polls
// exactly once per attempt.
func (c *Controller) AwaitCompletion() error {
	state := Running
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		status, err := c.backend.Status()
		if err != nil {
			return fmt.Errorf("polling status (attempt %d/%d): %w", attempt, c.cfg.MaxAttempts, err)
		}

		state = Next(state, status)
		fmt.Fprintf(c.w, "poll %d/%d: %s\n", attempt, c.cfg.MaxAttempts, state)

		switch state {
		case Done:
			return nil
		case Stopped:
			return fmt.Errorf("experiment ended without completing (status %s)", status)
		}

		if attempt < c.cfg.MaxAttempts {
			c.sleep(c.cfg.PollInterval)
		}
	}
	return fmt.Errorf("experiment still %s after %d polls: %w", state, c.cfg.MaxAttempts, ErrPollTimeout)
}

// StopAndDrain stops the active experiment and polls until the tool confirms
// nothing is active, so a new configuration can be started cleanly.
func (c *Controller) StopAndDrain() error {
	fmt.Fprintln(c.w, "stopping experiment")
	if err := c.backend.Stop(); err != nil {
		return fmt.Errorf("stopping experiment: %w", err)
	}

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		status, err := c.backend.Status()
		if err != nil {
			return fmt.Errorf("polling after stop (attempt %d/%d): %w", attempt, c.cfg.MaxAttempts, err)
		}
		if status == StatusNone || status == StatusStopped {
			return nil
		}
		if attempt < c.cfg.MaxAttempts {
			c.sleep(c.cfg.PollInterval)
		}
	}
	return fmt.Errorf("experiment did not stop after %d polls: %w", c.cfg.MaxAttempts, ErrPollTimeout)
}

// Restart stops whatever is active, starts the experiment at configPath, and
// blocks until it completes. Used once per tuning-strategy change.
func (c *Controller) Restart(configPath string) error {
	if err := c.StopAndDrain(); err != nil {
		return err
	}
	if err := c.Start(configPath); err != nil {
		return err
	}
	return c.AwaitCompletion()
}

// Trials exposes the backend's trial listing to the collector.
func (c *Controller) Trials() ([]types.Trial, error) {
	return c.backend.Trials()
}

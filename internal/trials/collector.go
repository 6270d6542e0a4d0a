// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trials collects finished-trial records written by the external
// tuning tool: per-trial parameter and metrics files, plus the persisted
// model artifact of the winning trial.
package trials

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pdiddy/tunebench/internal/controller"
	"github.com/pdiddy/tunebench/internal/evaluate"
	"github.com/pdiddy/tunebench/internal/expconfig"
	"github.com/pdiddy/tunebench/pkg/types"
)

const (
	// MetricsFileName is the metrics record every trial writes on completion.
	// A trial is terminal once this file exists.
	MetricsFileName = "metrics.json"

	// ParamsFileName is the parameter record the tool writes when the trial
	// is dispatched.
	ParamsFileName = "parameter.cfg"

	// ModelFileName is the model artifact the training entry point persists
	// inside its trial directory.
	ModelFileName = "model.json"
)

// ErrMissingArtifact reports an expected trial file that is absent even
// though polling succeeded; that indicates a trial-level failure inside the
// external tool rather than an orchestration bug.
var ErrMissingArtifact = errors.New("expected trial artifact is missing")

// Source lists the experiment's trials. *controller.Controller satisfies it.
type Source interface {
	Trials() ([]types.Trial, error)
}

// Collector polls trial directories until every expected trial has reported
// metrics, then loads the records.
type Collector struct {
	source Source
	cfg    types.ControllerConfig
	w      io.Writer

	// sleep is swapped out in tests to avoid real waiting.
	sleep func(time.Duration)
}

// NewCollector creates a collector reading trial records from the
// experiment directory. Zero polling settings fall back to the controller
// defaults.
func NewCollector(source Source, cfg types.ControllerConfig, w io.Writer) *Collector {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 60
	}
	return &Collector{source: source, cfg: cfg, w: w, sleep: time.Sleep}
}

// trialDir resolves a trial's output directory: the tool's reported working
// directory when present, otherwise <experiment_dir>/trials/<id>.
func (c *Collector) trialDir(t types.Trial) string {
	if t.Dir != "" {
		return t.Dir
	}
	return filepath.Join(c.cfg.ExperimentDir, "trials", t.ID)
}

// WaitForMetrics polls until every trial listed by the source has written
// its metrics record, then returns the fully loaded records in submission
// order. The polling budget surfaces as controller.ErrPollTimeout.
func (c *Collector) WaitForMetrics() ([]types.Trial, error) {
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		listed, err := c.source.Trials()
		if err != nil {
			return nil, fmt.Errorf("listing trials (attempt %d/%d): %w", attempt, c.cfg.MaxAttempts, err)
		}

		pending := 0
		for _, t := range listed {
			if _, err := os.Stat(filepath.Join(c.trialDir(t), MetricsFileName)); err != nil {
				pending++
			}
		}

		if len(listed) > 0 && pending == 0 {
			return c.loadAll(listed)
		}

		fmt.Fprintf(c.w, "poll %d/%d: %d/%d trials reported\n",
			attempt, c.cfg.MaxAttempts, len(listed)-pending, len(listed))
		if attempt < c.cfg.MaxAttempts {
			c.sleep(c.cfg.PollInterval)
		}
	}
	return nil, fmt.Errorf("trial metrics incomplete after %d polls: %w",
		c.cfg.MaxAttempts, controller.ErrPollTimeout)
}

// loadAll reads each trial's parameter and metrics records.
func (c *Collector) loadAll(listed []types.Trial) ([]types.Trial, error) {
	loaded := make([]types.Trial, 0, len(listed))
	for _, t := range listed {
		t.Dir = c.trialDir(t)

		metrics, err := readMetrics(filepath.Join(t.Dir, MetricsFileName))
		if err != nil {
			return nil, fmt.Errorf("trial %s: %w", t.ID, err)
		}
		t.Metrics = metrics

		params, err := readParams(filepath.Join(t.Dir, ParamsFileName))
		if err != nil {
			return nil, fmt.Errorf("trial %s: %w", t.ID, err)
		}
		t.Params = params

		loaded = append(loaded, t)
	}
	sort.Slice(loaded, func(i, j int) bool { return loaded[i].Sequence < loaded[j].Sequence })
	return loaded, nil
}

func readMetrics(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, path)
	}
	var metrics map[string]float64
	if err := json.Unmarshal(data, &metrics); err != nil {
		return nil, fmt.Errorf("parsing metrics record %s: %w", path, err)
	}
	return metrics, nil
}

// paramsRecord is the tool's parameter-record shape: the sampled values sit
// under a "parameters" key next to dispatch bookkeeping.
type paramsRecord struct {
	Parameters map[string]any `json:"parameters"`
}

func readParams(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, path)
	}
	var rec paramsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing parameter record %s: %w", path, err)
	}
	return rec.Parameters, nil
}

// BestTrial scans trials for the optimum primary-metric value. Ties resolve
// to the earliest-submitted trial: the scan walks submission order and only a
// strict improvement replaces the incumbent.
func BestTrial(all []types.Trial, metric string, mode expconfig.OptimizeMode) (types.Trial, error) {
	ordered := make([]types.Trial, len(all))
	copy(ordered, all)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Sequence < ordered[j].Sequence })

	var best types.Trial
	found := false
	for _, t := range ordered {
		v, ok := t.Primary(metric)
		if !ok {
			continue
		}
		if !found {
			best, found = t, true
			continue
		}
		incumbent, _ := best.Primary(metric)
		if (mode == expconfig.Maximize && v > incumbent) ||
			(mode == expconfig.Minimize && v < incumbent) {
			best = t
		}
	}
	if !found {
		return types.Trial{}, fmt.Errorf("no trial reported primary metric %q", metric)
	}
	return best, nil
}

// LoadModel deserializes the model artifact persisted at the fixed file name
// inside trialDir.
func LoadModel(trialDir string) (*evaluate.Model, error) {
	path := filepath.Join(trialDir, ModelFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, path)
	}
	var m evaluate.Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing model artifact %s: %w", path, err)
	}
	return &m, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunResult is the outcome of one tuning-strategy run: the best trial found,
// the metrics recomputed on the held-out test set, and the wall-clock cost of
// the whole experiment. Created once polling detects completion and never
// mutated afterward; the comparison table is its only consumer.
type RunResult struct {
	// Strategy names the tuning strategy (e.g. "tpe", "hyperband").
	Strategy string `json:"strategy" yaml:"strategy"`

	// BestTrialID is the identifier of the winning trial.
	BestTrialID string `json:"best_trial_id" yaml:"best_trial_id"`

	// BestParams holds the winning trial's hyperparameters.
	BestParams map[string]any `json:"best_params" yaml:"best_params"`

	// BestMetrics holds the winning trial's reported validation metrics.
	BestMetrics map[string]float64 `json:"best_metrics" yaml:"best_metrics"`

	// TestMetrics holds the metrics recomputed on the held-out test set with
	// the winning trial's persisted model.
	TestMetrics map[string]float64 `json:"test_metrics" yaml:"test_metrics"`

	// ModelPath is the filesystem path of the winning trial's model artifact.
	ModelPath string `json:"model_path" yaml:"model_path"`

	// Started is when the experiment for this strategy was created.
	Started time.Time `json:"started" yaml:"started"`

	// Elapsed is the wall-clock duration of the whole experiment run.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

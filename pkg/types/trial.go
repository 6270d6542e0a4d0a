// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Trial is one finished trial as reported by the external tuning tool. The
// tool writes each trial's parameter record and metrics record into its own
// subdirectory; a trial is terminal once its metrics file exists.
type Trial struct {
	// ID is the tool-assigned trial identifier (also the subdirectory name).
	ID string `json:"id" yaml:"id"`

	// Sequence is the submission order assigned by the tool. Tie-breaks on
	// the primary metric resolve to the lowest sequence.
	Sequence int `json:"sequence" yaml:"sequence"`

	// Params holds the hyperparameter values the tuner sampled for this trial,
	// keyed by search-space parameter name.
	Params map[string]any `json:"params" yaml:"params"`

	// Metrics holds the metric values the trial reported on completion,
	// keyed by metric name (rating metrics plus ranking metrics).
	Metrics map[string]float64 `json:"metrics" yaml:"metrics"`

	// Dir is the trial's output directory, containing logs, the parameter
	// record, the metrics record, and the persisted model artifact.
	Dir string `json:"dir" yaml:"dir"`
}

// Primary returns the trial's value for the named primary metric and whether
// the trial reported it.
func (t Trial) Primary(metric string) (float64, bool) {
	v, ok := t.Metrics[metric]
	return v, ok
}

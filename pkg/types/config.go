package types

import "time"

// DatasetConfig holds settings for the dataset preparation stage.
type DatasetConfig struct {
	// SourceURL is the HTTP location of the ratings CSV. Ignored when
	// LocalPath is set.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// LocalPath points at an already-downloaded ratings CSV.
	LocalPath string `json:"local_path,omitempty" yaml:"local_path,omitempty"`

	// ScratchDir is the working directory holding the dataset splits, the
	// search-space document, and the experiment configuration.
	ScratchDir string `json:"scratch_dir" yaml:"scratch_dir"`

	// SizeTag labels the dataset size (e.g. "100k") and prefixes the split
	// file names.
	SizeTag string `json:"size_tag" yaml:"size_tag"`

	// Proportions are the train/validation/test fractions; they must sum
	// to 1.0.
	Proportions [3]float64 `json:"proportions" yaml:"proportions,flow"`

	// Seed drives the shuffle so splits are reproducible.
	Seed int64 `json:"seed" yaml:"seed"`
}

// TrialParams holds the fixed parameters embedded into every trial's command
// line. Hyperparameters are not listed here; the external tuner samples those
// from the search space and passes them to the training entry point itself.
type TrialParams struct {
	// Script is the training entry point executable invoked once per trial.
	Script string `json:"script" yaml:"script"`

	// CodeDir is the working directory the trial command runs in.
	CodeDir string `json:"code_dir" yaml:"code_dir"`

	// RatingMetrics lists the rating metric names the trial must report
	// (e.g. rmse, mae).
	RatingMetrics []string `json:"rating_metrics" yaml:"rating_metrics,flow"`

	// RankingMetrics lists the ranking metric names the trial must report
	// (e.g. precision_at_k, ndcg_at_k).
	RankingMetrics []string `json:"ranking_metrics" yaml:"ranking_metrics,flow"`

	// UserCol and ItemCol name the user and item columns of the dataset.
	UserCol string `json:"user_col" yaml:"user_col"`
	ItemCol string `json:"item_col" yaml:"item_col"`

	// K is the top-k cutoff for ranking metrics.
	K int `json:"k" yaml:"k"`

	// Seed is the random seed passed to every trial.
	Seed int64 `json:"seed" yaml:"seed"`

	// Epochs is the training epoch count.
	Epochs int `json:"epochs" yaml:"epochs"`

	// PrimaryMetric is the metric the tuner optimizes.
	PrimaryMetric string `json:"primary_metric" yaml:"primary_metric"`

	// Biased selects the biased matrix-factorization variant.
	Biased bool `json:"biased" yaml:"biased"`

	// Verbose enables per-epoch trial logging.
	Verbose bool `json:"verbose" yaml:"verbose"`

	// RecommendSeen includes already-rated items in top-k recommendations.
	RecommendSeen bool `json:"recommend_seen" yaml:"recommend_seen"`
}

// ControllerConfig holds settings for driving the external tuning tool.
type ControllerConfig struct {
	// Tool is the tuning tool's CLI binary (default "nnictl").
	Tool string `json:"tool" yaml:"tool"`

	// ExperimentDir is the directory where the tool writes per-trial
	// subdirectories.
	ExperimentDir string `json:"experiment_dir" yaml:"experiment_dir"`

	// PollInterval is the spacing between status polls (default 10s).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`

	// MaxAttempts bounds every blocking wait; exceeding it surfaces as a
	// timeout (default 60).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// Concurrency is the trial concurrency limit handed to the tool.
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// MaxTrials is the trial budget per experiment.
	MaxTrials int `json:"max_trials" yaml:"max_trials"`

	// MaxDuration is the experiment duration budget (e.g. "1h").
	MaxDuration string `json:"max_duration" yaml:"max_duration"`
}

// StoreConfig holds settings for the run-result store.
type StoreConfig struct {
	// ResultsDir is the directory containing the results database.
	ResultsDir string `json:"results_dir" yaml:"results_dir"`
}

// Config groups all stage configurations for the tunebench pipeline.
type Config struct {
	Dataset    DatasetConfig    `json:"dataset" yaml:"dataset"`
	Trial      TrialParams      `json:"trial" yaml:"trial"`
	Controller ControllerConfig `json:"controller" yaml:"controller"`
	Store      StoreConfig      `json:"store" yaml:"store"`
}

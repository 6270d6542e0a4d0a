// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package expconfig builds the experiment configuration document consumed by
// the external tuning tool. Configurations are immutable values: swapping the
// tuning strategy produces a new document via copy-with-changes, never an
// in-place mutation, so successive strategy runs cannot contaminate each
// other.
package expconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/tunebench/pkg/types"
)

// Tuner selects a sampling-based tuning algorithm and its arguments.
type Tuner struct {
	Name string         `yaml:"builtinTunerName" json:"builtinTunerName"`
	Args map[string]any `yaml:"classArgs,omitempty" json:"classArgs,omitempty"`
}

// Advisor selects a resource-adaptive algorithm. An advisor replaces the
// tuner entirely and carries its own resource-budget arguments.
type Advisor struct {
	Name string         `yaml:"builtinAdvisorName" json:"builtinAdvisorName"`
	Args map[string]any `yaml:"classArgs,omitempty" json:"classArgs,omitempty"`
}

// TrialSpec describes how the tool launches each trial.
type TrialSpec struct {
	Command string `yaml:"command" json:"command"`
	CodeDir string `yaml:"codeDir" json:"codeDir"`
	GPUs    int    `yaml:"gpuNum" json:"gpuNum"`
}

// Config is the experiment configuration document. Exactly one of Tuner and
// Advisor must be set.
type Config struct {
	Name            string    `yaml:"experimentName" json:"experimentName"`
	Concurrency     int       `yaml:"trialConcurrency" json:"trialConcurrency"`
	MaxTrials       int       `yaml:"maxTrialNum" json:"maxTrialNum"`
	MaxDuration     string    `yaml:"maxExecDuration" json:"maxExecDuration"`
	SearchSpacePath string    `yaml:"searchSpacePath" json:"searchSpacePath"`
	Tuner           *Tuner    `yaml:"tuner,omitempty" json:"tuner,omitempty"`
	Advisor         *Advisor  `yaml:"advisor,omitempty" json:"advisor,omitempty"`
	Trial           TrialSpec `yaml:"trial" json:"trial"`
}

// New assembles a configuration from the controller settings and the trial
// command. No strategy is installed yet; apply one with WithTuner or
// WithAdvisor before saving.
func New(name string, ctl types.ControllerConfig, searchSpacePath string, trial TrialSpec) Config {
	return Config{
		Name:            name,
		Concurrency:     ctl.Concurrency,
		MaxTrials:       ctl.MaxTrials,
		MaxDuration:     ctl.MaxDuration,
		SearchSpacePath: searchSpacePath,
		Trial:           trial,
	}
}

// WithTuner returns a copy of the configuration with the named tuner
// installed and any advisor removed.
func (c Config) WithTuner(name string, args map[string]any) Config {
	c.Tuner = &Tuner{Name: name, Args: copyArgs(args)}
	c.Advisor = nil
	return c
}

// WithAdvisor returns a copy of the configuration with the named advisor
// installed and any tuner removed.
func (c Config) WithAdvisor(name string, args map[string]any) Config {
	c.Advisor = &Advisor{Name: name, Args: copyArgs(args)}
	c.Tuner = nil
	return c
}

// WithName returns a copy of the configuration under a new experiment name.
func (c Config) WithName(name string) Config {
	c.Name = name
	return c
}

func copyArgs(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	return out
}

// Validate checks the document before any external process is spawned.
func (c Config) Validate() error {
	if c.Concurrency <= 0 {
		return fmt.Errorf("trial concurrency must be positive, got %d", c.Concurrency)
	}
	if c.MaxTrials <= 0 {
		return fmt.Errorf("max trial count must be positive, got %d", c.MaxTrials)
	}
	if c.SearchSpacePath == "" {
		return fmt.Errorf("search space path is empty")
	}
	if (c.Tuner == nil) == (c.Advisor == nil) {
		return fmt.Errorf("exactly one of tuner and advisor must be set")
	}
	if c.Trial.Command == "" {
		return fmt.Errorf("trial command is empty")
	}
	if c.Trial.CodeDir != "" {
		if _, err := os.Stat(c.Trial.CodeDir); err != nil {
			return fmt.Errorf("trial code dir %s is not resolvable: %w", c.Trial.CodeDir, err)
		}
	}
	return nil
}

// Save validates the configuration and writes it to path as YAML, fully
// replacing any previous document.
func (c Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid experiment config: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling experiment config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing experiment config: %w", err)
	}
	return nil
}

// Load reads a configuration document back from path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading experiment config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parsing experiment config: %w", err)
	}
	return c, nil
}

// BuildTrialCommand assembles the training entry point's command line from
// the fixed script parameters and the split file names. Every fixed parameter
// becomes an argument; boolean flags are appended only when true. The tuner
// appends the sampled hyperparameters itself.
func BuildTrialCommand(p types.TrialParams, dataDir, trainFile, validFile string) string {
	args := []string{
		p.Script,
		"--datastore", dataDir,
		"--train-datapath", trainFile,
		"--validation-datapath", validFile,
		"--rating-metrics", strings.Join(p.RatingMetrics, ","),
		"--ranking-metrics", strings.Join(p.RankingMetrics, ","),
		"--usercol", p.UserCol,
		"--itemcol", p.ItemCol,
		"--k", strconv.Itoa(p.K),
		"--random-state", strconv.FormatInt(p.Seed, 10),
		"--epochs", strconv.Itoa(p.Epochs),
		"--primary-metric", p.PrimaryMetric,
	}
	if p.Biased {
		args = append(args, "--biased")
	}
	if p.Verbose {
		args = append(args, "--verbose")
	}
	if p.RecommendSeen {
		args = append(args, "--recommend-seen")
	}
	return strings.Join(args, " ")
}

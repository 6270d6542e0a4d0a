// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package expconfig

import "fmt"

// OptimizeMode tells the tuner which direction the primary metric improves.
type OptimizeMode string

const (
	Maximize OptimizeMode = "maximize"
	Minimize OptimizeMode = "minimize"
)

// Strategy is one tuning algorithm selection: either a tuner block or an
// advisor block, applied to a base configuration by copy-with-changes.
type Strategy struct {
	// Name labels the strategy in experiment names and the comparison table.
	Name string

	tuner   string
	advisor string
	args    map[string]any
}

// Apply returns a copy of cfg with this strategy's tuner or advisor block
// installed.
func (s Strategy) Apply(cfg Config) Config {
	if s.advisor != "" {
		return cfg.WithAdvisor(s.advisor, s.args)
	}
	return cfg.WithTuner(s.tuner, s.args)
}

// Strategies returns the tuning strategies compared by a full sweep, in
// sweep order. The first six are sampling tuners; Hyperband is an advisor
// that schedules trials against a resource budget (maximum resource R,
// reduction factor eta) instead of a fixed sample count.
func Strategies(mode OptimizeMode) []Strategy {
	tuner := func(label, name string) Strategy {
		return Strategy{
			Name:  label,
			tuner: name,
			args:  map[string]any{"optimize_mode": string(mode)},
		}
	}
	return []Strategy{
		tuner("tpe", "TPE"),
		tuner("random", "Random"),
		tuner("anneal", "Anneal"),
		tuner("evolution", "Evolution"),
		tuner("smac", "SMAC"),
		tuner("metis", "MetisTuner"),
		{
			Name:    "hyperband",
			advisor: "Hyperband",
			args: map[string]any{
				"optimize_mode": string(mode),
				"R":             60,
				"eta":           3,
			},
		},
	}
}

// StrategyByName finds a strategy in the sweep set by label.
func StrategyByName(name string, mode OptimizeMode) (Strategy, error) {
	for _, s := range Strategies(mode) {
		if s.Name == name {
			return s, nil
		}
	}
	return Strategy{}, fmt.Errorf("unknown tuning strategy %q", name)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tunebench/internal/controller"
	"github.com/pdiddy/tunebench/internal/dataset"
	"github.com/pdiddy/tunebench/internal/evaluate"
	"github.com/pdiddy/tunebench/internal/expconfig"
	"github.com/pdiddy/tunebench/internal/report"
	"github.com/pdiddy/tunebench/internal/runstore"
	"github.com/pdiddy/tunebench/internal/space"
	"github.com/pdiddy/tunebench/internal/trials"
	"github.com/pdiddy/tunebench/pkg/types"
)

const (
	searchSpaceFile = "search_space.json"
	experimentFile  = "experiment.yaml"
)

var runCmd = &cobra.Command{
	Use:   "run [strategies...]",
	Short: "Sweep tuning strategies through the external tuning tool",
	Long: `Run executes one experiment per tuning strategy: it writes the search-space
and experiment configuration documents, restarts the external tool with the
new configuration, waits for all trials to finish, evaluates the best
trial's model on the held-out test set, and records the result.

With no arguments the full strategy set is swept: tpe, random, anneal,
evolution, smac, metis, and hyperband.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		mode := expconfig.Maximize
		if minimize, _ := cmd.Flags().GetBool("minimize"); minimize {
			mode = expconfig.Minimize
		}

		sweep := expconfig.Strategies(mode)
		if len(args) > 0 {
			sweep = sweep[:0]
			for _, name := range args {
				s, err := expconfig.StrategyByName(name, mode)
				if err != nil {
					return err
				}
				sweep = append(sweep, s)
			}
		}

		backend := controller.NewCLIBackend(cfg.Controller.Tool)
		return runSweep(cmd.Context(), backend, cfg, mode, sweep, os.Stdout)
	},
}

func init() {
	runCmd.Flags().Bool("minimize", false, "minimize the primary metric instead of maximizing")

	rootCmd.AddCommand(runCmd)
}

// runSweep executes the strategy sweep against the given backend. Each
// strategy run overwrites the experiment configuration document, restarts the
// external tool, and records the run result; configuration is never mutated
// while an experiment is active.
func runSweep(ctx context.Context, backend controller.Backend, cfg types.Config,
	mode expconfig.OptimizeMode, sweep []expconfig.Strategy, w io.Writer) error {

	scratch := cfg.Dataset.ScratchDir
	names := dataset.SplitNames(cfg.Dataset.SizeTag)

	train, err := dataset.ReadRatings(filepath.Join(scratch, names[0]))
	if err != nil {
		return fmt.Errorf("reading train split (run prepare first): %w", err)
	}
	test, err := dataset.ReadRatings(filepath.Join(scratch, names[2]))
	if err != nil {
		return fmt.Errorf("reading test split (run prepare first): %w", err)
	}

	spacePath := filepath.Join(scratch, searchSpaceFile)
	if err := space.Default().Save(spacePath); err != nil {
		return err
	}

	codeDir := cfg.Trial.CodeDir
	if codeDir == "" {
		codeDir = scratch
	}
	base := expconfig.New("tunebench", cfg.Controller, spacePath, expconfig.TrialSpec{
		Command: expconfig.BuildTrialCommand(cfg.Trial, scratch, names[0], names[1]),
		CodeDir: codeDir,
	})

	store, err := runstore.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	ctl := controller.New(backend, cfg.Controller, w)
	configPath := filepath.Join(scratch, experimentFile)

	var results []types.RunResult
	for _, strat := range sweep {
		fmt.Fprintf(w, "\n=== strategy: %s ===\n", strat.Name)

		conf := strat.Apply(base).WithName("tunebench-" + strat.Name)
		if err := conf.Save(configPath); err != nil {
			return fmt.Errorf("strategy %s: %w", strat.Name, err)
		}

		started := time.Now()
		if err := ctl.Restart(configPath); err != nil {
			return fmt.Errorf("strategy %s: %w", strat.Name, err)
		}

		collector := trials.NewCollector(ctl, cfg.Controller, w)
		all, err := collector.WaitForMetrics()
		if err != nil {
			return fmt.Errorf("strategy %s: %w", strat.Name, err)
		}

		best, err := trials.BestTrial(all, cfg.Trial.PrimaryMetric, mode)
		if err != nil {
			return fmt.Errorf("strategy %s: %w", strat.Name, err)
		}
		fmt.Fprintf(w, "best trial %s: %s=%g\n",
			best.ID, cfg.Trial.PrimaryMetric, best.Metrics[cfg.Trial.PrimaryMetric])

		model, err := trials.LoadModel(best.Dir)
		if err != nil {
			return fmt.Errorf("strategy %s: %w", strat.Name, err)
		}

		testMetrics, err := evaluate.Evaluate(model, train, test, cfg.Trial)
		if err != nil {
			return fmt.Errorf("strategy %s: %w", strat.Name, err)
		}

		result := types.RunResult{
			Strategy:    strat.Name,
			BestTrialID: best.ID,
			BestParams:  best.Params,
			BestMetrics: best.Metrics,
			TestMetrics: testMetrics,
			ModelPath:   filepath.Join(best.Dir, trials.ModelFileName),
			Started:     started,
			Elapsed:     time.Since(started),
		}
		if err := store.Put(ctx, result); err != nil {
			return fmt.Errorf("strategy %s: %w", strat.Name, err)
		}
		results = append(results, result)
	}

	if err := ctl.StopAndDrain(); err != nil {
		fmt.Fprintf(w, "warning: final stop failed: %v\n", err)
	}

	fmt.Fprintln(w)
	table := report.Build(results)
	return table.Render(w, report.FormatTable)
}

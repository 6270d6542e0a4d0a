package main

import (
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/tunebench/pkg/types"
)

// loadConfig assembles the pipeline configuration from viper, applying
// defaults for anything the config file and environment leave unset.
func loadConfig() types.Config {
	v := viper.GetViper()

	v.SetDefault("dataset.scratch_dir", "scratch")
	v.SetDefault("dataset.size_tag", "100k")
	v.SetDefault("dataset.proportions", []float64{0.7, 0.15, 0.15})
	v.SetDefault("dataset.seed", 42)

	v.SetDefault("trial.script", "svd_training")
	v.SetDefault("trial.rating_metrics", []string{"rmse"})
	v.SetDefault("trial.ranking_metrics", []string{"precision_at_k", "ndcg_at_k"})
	v.SetDefault("trial.user_col", "userID")
	v.SetDefault("trial.item_col", "itemID")
	v.SetDefault("trial.k", 10)
	v.SetDefault("trial.seed", 42)
	v.SetDefault("trial.epochs", 30)
	v.SetDefault("trial.primary_metric", "precision_at_k")
	v.SetDefault("trial.biased", true)

	v.SetDefault("controller.tool", "nnictl")
	v.SetDefault("controller.poll_interval", "10s")
	v.SetDefault("controller.max_attempts", 60)
	v.SetDefault("controller.concurrency", 8)
	v.SetDefault("controller.max_trials", 100)
	v.SetDefault("controller.max_duration", "1h")

	v.SetDefault("store.results_dir", "results")

	cfg := types.Config{
		Dataset: types.DatasetConfig{
			SourceURL:  v.GetString("dataset.source_url"),
			LocalPath:  v.GetString("dataset.local_path"),
			ScratchDir: v.GetString("dataset.scratch_dir"),
			SizeTag:    v.GetString("dataset.size_tag"),
			Seed:       v.GetInt64("dataset.seed"),
		},
		Trial: types.TrialParams{
			Script:         v.GetString("trial.script"),
			CodeDir:        v.GetString("trial.code_dir"),
			RatingMetrics:  v.GetStringSlice("trial.rating_metrics"),
			RankingMetrics: v.GetStringSlice("trial.ranking_metrics"),
			UserCol:        v.GetString("trial.user_col"),
			ItemCol:        v.GetString("trial.item_col"),
			K:              v.GetInt("trial.k"),
			Seed:           v.GetInt64("trial.seed"),
			Epochs:         v.GetInt("trial.epochs"),
			PrimaryMetric:  v.GetString("trial.primary_metric"),
			Biased:         v.GetBool("trial.biased"),
			Verbose:        v.GetBool("trial.verbose"),
			RecommendSeen:  v.GetBool("trial.recommend_seen"),
		},
		Controller: types.ControllerConfig{
			Tool:          v.GetString("controller.tool"),
			ExperimentDir: v.GetString("controller.experiment_dir"),
			PollInterval:  v.GetDuration("controller.poll_interval"),
			MaxAttempts:   v.GetInt("controller.max_attempts"),
			Concurrency:   v.GetInt("controller.concurrency"),
			MaxTrials:     v.GetInt("controller.max_trials"),
			MaxDuration:   v.GetString("controller.max_duration"),
		},
		Store: types.StoreConfig{
			ResultsDir: v.GetString("store.results_dir"),
		},
	}

	if props := toFloats(v.Get("dataset.proportions")); len(props) == 3 {
		copy(cfg.Dataset.Proportions[:], props)
	}
	if cfg.Controller.PollInterval <= 0 {
		cfg.Controller.PollInterval = 10 * time.Second
	}
	return cfg
}

// toFloats converts a viper slice value (from YAML, env, or defaults) into
// floats; unparsable entries drop the whole slice.
func toFloats(raw any) []float64 {
	switch vals := raw.(type) {
	case []float64:
		return vals
	case []any:
		out := make([]float64, 0, len(vals))
		for _, v := range vals {
			switch x := v.(type) {
			case float64:
				out = append(out, x)
			case int:
				out = append(out, float64(x))
			case string:
				f, err := strconv.ParseFloat(x, 64)
				if err != nil {
					return nil
				}
				out = append(out, f)
			default:
				return nil
			}
		}
		return out
	case []string:
		out := make([]float64, 0, len(vals))
		for _, s := range vals {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil
			}
			out = append(out, f)
		}
		return out
	default:
		return nil
	}
}

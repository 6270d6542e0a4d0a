package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/tunebench/internal/controller"
	"github.com/pdiddy/tunebench/internal/expconfig"
	"github.com/pdiddy/tunebench/internal/runstore"
	"github.com/pdiddy/tunebench/pkg/types"
)

// doneBackend simulates an external tool whose experiments finish
// immediately: no experiment is active until Create, and every poll after
// Create reports DONE.
type doneBackend struct {
	created bool
	trials  []types.Trial
}

func (b *doneBackend) Create(configPath string) error {
	b.created = true
	return nil
}

func (b *doneBackend) Stop() error {
	b.created = false
	return nil
}

func (b *doneBackend) Status() (string, error) {
	if !b.created {
		return controller.StatusNone, nil
	}
	return controller.StatusDone, nil
}

func (b *doneBackend) Trials() ([]types.Trial, error) {
	return b.trials, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunSweepEndToEnd(t *testing.T) {
	scratch := t.TempDir()

	// Splits the preparer would have written.
	writeFile(t, filepath.Join(scratch, "mini_train.csv"),
		"userID,itemID,rating,timestamp\nu1,i1,4,\nu2,i3,5,\n")
	writeFile(t, filepath.Join(scratch, "mini_valid.csv"),
		"userID,itemID,rating,timestamp\nu1,i3,2,\n")
	writeFile(t, filepath.Join(scratch, "mini_test.csv"),
		"userID,itemID,rating,timestamp\nu1,i2,3,\nu2,i2,1,\n")

	// One finished trial with its records and model artifact.
	trialDir := filepath.Join(scratch, "trials", "t0")
	if err := os.MkdirAll(trialDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(trialDir, "parameter.cfg"),
		`{"parameter_id":0,"parameters":{"n_factors":2,"reg":0.05}}`)
	writeFile(t, filepath.Join(trialDir, "metrics.json"),
		`{"precision_at_k":0.2,"rmse":0.95}`)
	writeFile(t, filepath.Join(trialDir, "model.json"), `{
		"global_mean": 3.0,
		"biased": false,
		"user_factors": {"u1": [1, 0], "u2": [0, 1]},
		"item_factors": {"i1": [4, 1], "i2": [3, 2], "i3": [1, 5]}
	}`)

	backend := &doneBackend{trials: []types.Trial{{ID: "t0", Sequence: 0, Dir: trialDir}}}

	cfg := types.Config{
		Dataset: types.DatasetConfig{
			ScratchDir:  scratch,
			SizeTag:     "mini",
			Proportions: [3]float64{0.7, 0.15, 0.15},
		},
		Trial: types.TrialParams{
			Script:         "svd_training",
			RatingMetrics:  []string{"rmse", "mae"},
			RankingMetrics: []string{"precision_at_k"},
			UserCol:        "userID",
			ItemCol:        "itemID",
			K:              1,
			Epochs:         5,
			PrimaryMetric:  "precision_at_k",
		},
		Controller: types.ControllerConfig{
			Tool:         "nnictl",
			PollInterval: time.Millisecond,
			MaxAttempts:  3,
			Concurrency:  2,
			MaxTrials:    5,
			MaxDuration:  "10m",
		},
		Store: types.StoreConfig{ResultsDir: t.TempDir()},
	}

	sweep := []expconfig.Strategy{}
	for _, name := range []string{"tpe"} {
		s, err := expconfig.StrategyByName(name, expconfig.Maximize)
		if err != nil {
			t.Fatal(err)
		}
		sweep = append(sweep, s)
	}

	var out bytes.Buffer
	if err := runSweep(context.Background(), backend, cfg, expconfig.Maximize, sweep, &out); err != nil {
		t.Fatalf("runSweep: %v\noutput:\n%s", err, out.String())
	}

	// The configuration document was written with the tpe tuner installed.
	conf, err := expconfig.Load(filepath.Join(scratch, experimentFile))
	if err != nil {
		t.Fatal(err)
	}
	if conf.Tuner == nil || conf.Tuner.Name != "TPE" {
		t.Errorf("experiment config tuner = %+v, want TPE", conf.Tuner)
	}

	// The run result was recorded with the best trial and recomputed metrics.
	store, err := runstore.Open(cfg.Store)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	results, err := store.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(results))
	}
	got := results[0]
	if got.Strategy != "tpe" || got.BestTrialID != "t0" {
		t.Errorf("run result = %s/%s, want tpe/t0", got.Strategy, got.BestTrialID)
	}
	if got.BestMetrics["precision_at_k"] != 0.2 {
		t.Errorf("best metric = %g, want 0.2", got.BestMetrics["precision_at_k"])
	}
	// Both held-out users' top unseen item is i2, which is exactly what they
	// rated in the test split.
	if got.TestMetrics["precision_at_k"] != 1.0 {
		t.Errorf("recomputed precision_at_k = %g, want 1", got.TestMetrics["precision_at_k"])
	}

	if !strings.Contains(out.String(), "tpe") {
		t.Errorf("sweep output missing comparison table:\n%s", out.String())
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/tunebench/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{ResultsDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(strategy string) types.RunResult {
	return types.RunResult{
		Strategy:    strategy,
		BestTrialID: "t42",
		BestParams:  map[string]any{"n_factors": float64(16), "reg": 0.05},
		BestMetrics: map[string]float64{"precision_at_k": 0.21},
		TestMetrics: map[string]float64{"precision_at_k": 0.19, "rmse": 0.94},
		ModelPath:   "/tmp/trials/t42/model.json",
		Started:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Elapsed:     90 * time.Second,
	}
}

func TestPutAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := sampleResult("tpe")
	second := sampleResult("random")
	second.Started = first.Started.Add(time.Hour)

	require.NoError(t, s.Put(ctx, first))
	require.NoError(t, s.Put(ctx, second))

	results, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Ordered by start time.
	assert.Equal(t, "tpe", results[0].Strategy)
	assert.Equal(t, "random", results[1].Strategy)

	got := results[0]
	assert.Equal(t, first.BestTrialID, got.BestTrialID)
	assert.Equal(t, first.BestParams, got.BestParams)
	assert.Equal(t, first.TestMetrics, got.TestMetrics)
	assert.Equal(t, first.ModelPath, got.ModelPath)
	assert.True(t, got.Started.Equal(first.Started))
	assert.Equal(t, first.Elapsed, got.Elapsed)
}

func TestPutReplacesStrategyRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, sampleResult("tpe")))

	rerun := sampleResult("tpe")
	rerun.BestTrialID = "t99"
	rerun.TestMetrics = map[string]float64{"rmse": 0.90}
	require.NoError(t, s.Put(ctx, rerun))

	results, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1, "rerun replaces the previous row")
	assert.Equal(t, "t99", results[0].BestTrialID)
	assert.Equal(t, 0.90, results[0].TestMetrics["rmse"])
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)

	results, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
}

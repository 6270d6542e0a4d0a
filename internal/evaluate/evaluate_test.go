// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evaluate

import (
	"testing"

	"github.com/pdiddy/tunebench/pkg/types"
)

// stubModel scores items by a fixed two-dimensional factorization so every
// expected metric value is hand-checkable.
func stubModel() *Model {
	return &Model{
		GlobalMean: 3.0,
		UserFactors: map[string][]float64{
			"u1": {1, 0},
			"u2": {0, 1},
		},
		ItemFactors: map[string][]float64{
			"i1": {4, 1},
			"i2": {3, 2},
			"i3": {1, 5},
		},
	}
}

func TestPredict(t *testing.T) {
	m := stubModel()

	if got := m.Predict("u1", "i1"); got != 4 {
		t.Errorf("Predict(u1,i1) = %g, want 4", got)
	}
	if got := m.Predict("u2", "i3"); got != 5 {
		t.Errorf("Predict(u2,i3) = %g, want 5", got)
	}
	// Unknown users fall back to the global mean.
	if got := m.Predict("stranger", "i1"); got != 3 {
		t.Errorf("Predict(stranger,i1) = %g, want global mean 3", got)
	}
}

func TestPredictBiased(t *testing.T) {
	m := &Model{
		GlobalMean: 3.0,
		Biased:     true,
		UserBiases: map[string]float64{"u1": 0.5},
		ItemBiases: map[string]float64{"i1": -0.25},
		UserFactors: map[string][]float64{
			"u1": {1},
		},
		ItemFactors: map[string][]float64{
			"i1": {2},
		},
	}
	if got := m.Predict("u1", "i1"); got != 5.25 {
		t.Errorf("Predict = %g, want 3 + 0.5 - 0.25 + 2 = 5.25", got)
	}
}

func TestRecommendExcludesSeen(t *testing.T) {
	m := stubModel()
	seen := map[string]bool{"i1": true}

	top := m.Recommend("u1", 2, seen, false)
	if len(top) != 2 || top[0] != "i2" || top[1] != "i3" {
		t.Errorf("Recommend excluding seen = %v, want [i2 i3]", top)
	}

	top = m.Recommend("u1", 2, seen, true)
	if len(top) != 2 || top[0] != "i1" || top[1] != "i2" {
		t.Errorf("Recommend including seen = %v, want [i1 i2]", top)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	m := stubModel()
	train := []types.Rating{
		{UserID: "u1", ItemID: "i1", Value: 4},
		{UserID: "u2", ItemID: "i3", Value: 5},
	}
	heldOut := []types.Rating{
		{UserID: "u1", ItemID: "i2", Value: 3}, // predicted 3
		{UserID: "u2", ItemID: "i2", Value: 1}, // predicted 2
	}
	p := types.TrialParams{
		RatingMetrics:  []string{"rmse", "mae"},
		RankingMetrics: []string{"precision_at_k", "ndcg_at_k"},
		K:              1,
	}

	got, err := Evaluate(m, train, heldOut, p)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	// Errors are 0 and 1: RMSE = sqrt(1/2), MAE = 1/2.
	if !almostEqual(got["mae"], 0.5) {
		t.Errorf("mae = %g, want 0.5", got["mae"])
	}
	if !almostEqual(got["rmse"]*got["rmse"], 0.5) {
		t.Errorf("rmse = %g, want sqrt(0.5)", got["rmse"])
	}

	// For both users the top unseen item is i2, which is each user's held-out
	// item, so precision@1 and ndcg@1 are 1.
	if !almostEqual(got["precision_at_k"], 1.0) {
		t.Errorf("precision_at_k = %g, want 1", got["precision_at_k"])
	}
	if !almostEqual(got["ndcg_at_k"], 1.0) {
		t.Errorf("ndcg_at_k = %g, want 1", got["ndcg_at_k"])
	}

	// A second run over the same inputs is identical.
	again, err := Evaluate(m, train, heldOut, p)
	if err != nil {
		t.Fatal(err)
	}
	for name, v := range got {
		if again[name] != v {
			t.Errorf("metric %s differs between runs: %g vs %g", name, v, again[name])
		}
	}
}

func TestEvaluateUnknownMetric(t *testing.T) {
	m := stubModel()
	p := types.TrialParams{RatingMetrics: []string{"mape"}}
	if _, err := Evaluate(m, nil, nil, p); err == nil {
		t.Error("expected error for unknown rating metric")
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evaluate

import (
	"fmt"

	"github.com/pdiddy/tunebench/pkg/types"
)

// Rating metric names accepted in TrialParams.RatingMetrics.
const (
	MetricRMSE   = "rmse"
	MetricMAE    = "mae"
	MetricR2     = "rsquared"
	MetricExpVar = "exp_var"
)

// Ranking metric names accepted in TrialParams.RankingMetrics.
const (
	MetricPrecisionAtK = "precision_at_k"
	MetricRecallAtK    = "recall_at_k"
	MetricNDCGAtK      = "ndcg_at_k"
	MetricMAPAtK       = "map_at_k"
)

// Evaluate recomputes the configured metrics for model on the held-out set.
// Rating metrics run over predicted-vs-actual pairs for every held-out
// record. Ranking metrics run over a top-k recommendation list per held-out
// user, averaged across users; items from train are treated as seen and are
// excluded from the lists unless RecommendSeen is set.
func Evaluate(model *Model, train, heldOut []types.Rating, p types.TrialParams) (map[string]float64, error) {
	results := make(map[string]float64, len(p.RatingMetrics)+len(p.RankingMetrics))

	predicted := make([]float64, len(heldOut))
	actual := make([]float64, len(heldOut))
	for i, r := range heldOut {
		predicted[i] = model.Predict(r.UserID, r.ItemID)
		actual[i] = r.Value
	}

	for _, name := range p.RatingMetrics {
		switch name {
		case MetricRMSE:
			results[name] = RMSE(predicted, actual)
		case MetricMAE:
			results[name] = MAE(predicted, actual)
		case MetricR2:
			results[name] = RSquared(predicted, actual)
		case MetricExpVar:
			results[name] = ExplainedVariance(predicted, actual)
		default:
			return nil, fmt.Errorf("unknown rating metric %q", name)
		}
	}

	if len(p.RankingMetrics) > 0 {
		ranking, err := rankingMetrics(model, train, heldOut, p)
		if err != nil {
			return nil, err
		}
		for name, v := range ranking {
			results[name] = v
		}
	}

	return results, nil
}

// rankingMetrics recommends top-k per held-out user and averages each
// configured ranking metric across users. A held-out item counts as relevant
// for its user regardless of rating value.
func rankingMetrics(model *Model, train, heldOut []types.Rating, p types.TrialParams) (map[string]float64, error) {
	seen := make(map[string]map[string]bool)
	for _, r := range train {
		if seen[r.UserID] == nil {
			seen[r.UserID] = make(map[string]bool)
		}
		seen[r.UserID][r.ItemID] = true
	}

	relevant := make(map[string]map[string]bool)
	for _, r := range heldOut {
		if relevant[r.UserID] == nil {
			relevant[r.UserID] = make(map[string]bool)
		}
		relevant[r.UserID][r.ItemID] = true
	}

	sums := make(map[string]float64, len(p.RankingMetrics))
	for userID, rel := range relevant {
		top := model.Recommend(userID, p.K, seen[userID], p.RecommendSeen)
		for _, name := range p.RankingMetrics {
			switch name {
			case MetricPrecisionAtK:
				sums[name] += PrecisionAtK(top, rel, p.K)
			case MetricRecallAtK:
				sums[name] += RecallAtK(top, rel, p.K)
			case MetricNDCGAtK:
				sums[name] += NDCGAtK(top, rel, p.K)
			case MetricMAPAtK:
				sums[name] += MAPAtK(top, rel, p.K)
			default:
				return nil, fmt.Errorf("unknown ranking metric %q", name)
			}
		}
	}

	users := float64(len(relevant))
	results := make(map[string]float64, len(sums))
	for _, name := range p.RankingMetrics {
		if users > 0 {
			results[name] = sums[name] / users
		} else {
			results[name] = 0
		}
	}
	return results, nil
}

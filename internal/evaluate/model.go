// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evaluate recomputes rating and ranking metrics for a persisted
// matrix-factorization model on a held-out rating set.
package evaluate

import "sort"

// Model is a trained matrix-factorization model: a latent vector per user
// and item, plus bias terms used by the biased variant. The predicted rating
// is the dot product of the two latent vectors, shifted by the biases.
type Model struct {
	GlobalMean  float64              `json:"global_mean"`
	Biased      bool                 `json:"biased"`
	UserBiases  map[string]float64   `json:"user_biases,omitempty"`
	ItemBiases  map[string]float64   `json:"item_biases,omitempty"`
	UserFactors map[string][]float64 `json:"user_factors"`
	ItemFactors map[string][]float64 `json:"item_factors"`
}

// Predict returns the model's score for a user-item pair. Unknown users or
// items fall back to the global mean, so every held-out record gets a
// prediction.
func (m *Model) Predict(userID, itemID string) float64 {
	uf, uok := m.UserFactors[userID]
	vf, iok := m.ItemFactors[itemID]

	score := 0.0
	if m.Biased {
		score = m.GlobalMean + m.UserBiases[userID] + m.ItemBiases[itemID]
	}
	if !uok || !iok {
		if !m.Biased {
			return m.GlobalMean
		}
		return score
	}
	return score + dot(uf, vf)
}

// Recommend returns the user's top-k items by predicted score. Items in seen
// are excluded unless recommendSeen is set. Equal scores order by item ID so
// the list is deterministic.
func (m *Model) Recommend(userID string, k int, seen map[string]bool, recommendSeen bool) []string {
	type scored struct {
		itemID string
		score  float64
	}

	candidates := make([]scored, 0, len(m.ItemFactors))
	for itemID := range m.ItemFactors {
		if !recommendSeen && seen[itemID] {
			continue
		}
		candidates = append(candidates, scored{itemID, m.Predict(userID, itemID)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].itemID < candidates[j].itemID
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	top := make([]string, k)
	for i := 0; i < k; i++ {
		top[i] = candidates[i].itemID
	}
	return top
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evaluate

import "math"

// PrecisionAtK is the fraction of the recommended list that is relevant.
// The denominator is k even when fewer items were recommended.
func PrecisionAtK(recommended []string, relevant map[string]bool, k int) float64 {
	if k <= 0 {
		return 0
	}
	return float64(hits(recommended, relevant, k)) / float64(k)
}

// RecallAtK is the fraction of relevant items that made the recommended list.
func RecallAtK(recommended []string, relevant map[string]bool, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}
	return float64(hits(recommended, relevant, k)) / float64(len(relevant))
}

// NDCGAtK is the normalized discounted cumulative gain with binary relevance:
// each hit at rank i (1-based) contributes 1/log2(i+1), normalized by the
// ideal ordering.
func NDCGAtK(recommended []string, relevant map[string]bool, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}
	if k > len(recommended) {
		k = len(recommended)
	}

	dcg := 0.0
	for i := 0; i < k; i++ {
		if relevant[recommended[i]] {
			dcg += 1 / math.Log2(float64(i)+2)
		}
	}

	ideal := len(relevant)
	if ideal > k {
		ideal = k
	}
	idcg := 0.0
	for i := 0; i < ideal; i++ {
		idcg += 1 / math.Log2(float64(i)+2)
	}
	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}

// MAPAtK is the average precision of the recommended list, averaged over the
// relevant items (capped at k).
func MAPAtK(recommended []string, relevant map[string]bool, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}
	if k > len(recommended) {
		k = len(recommended)
	}

	hitCount := 0
	sum := 0.0
	for i := 0; i < k; i++ {
		if relevant[recommended[i]] {
			hitCount++
			sum += float64(hitCount) / float64(i+1)
		}
	}

	denom := len(relevant)
	if denom > k {
		denom = k
	}
	return sum / float64(denom)
}

func hits(recommended []string, relevant map[string]bool, k int) int {
	if k > len(recommended) {
		k = len(recommended)
	}
	n := 0
	for i := 0; i < k; i++ {
		if relevant[recommended[i]] {
			n++
		}
	}
	return n
}

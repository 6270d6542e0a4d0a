// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evaluate

import "math"

// RMSE is the root mean squared error of predictions against actuals.
func RMSE(predicted, actual []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	sum := 0.0
	for i := range actual {
		d := predicted[i] - actual[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(actual)))
}

// MAE is the mean absolute error of predictions against actuals.
func MAE(predicted, actual []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	sum := 0.0
	for i := range actual {
		sum += math.Abs(predicted[i] - actual[i])
	}
	return sum / float64(len(actual))
}

// RSquared is the coefficient of determination: 1 - SS_res/SS_tot.
func RSquared(predicted, actual []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	m := mean(actual)
	ssRes, ssTot := 0.0, 0.0
	for i := range actual {
		d := actual[i] - predicted[i]
		ssRes += d * d
		t := actual[i] - m
		ssTot += t * t
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// ExplainedVariance is 1 - Var(actual-predicted)/Var(actual).
func ExplainedVariance(predicted, actual []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	residuals := make([]float64, len(actual))
	for i := range actual {
		residuals[i] = actual[i] - predicted[i]
	}
	varActual := variance(actual)
	if varActual == 0 {
		return 0
	}
	return 1 - variance(residuals)/varActual
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func variance(xs []float64) float64 {
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs))
}

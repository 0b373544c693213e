// Package stats provides statistical utility functions for analyzers.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Quantile returns the empirical q-quantile of values, which need not be
// sorted. Returns 0 if values is empty.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Quantile(q, stat.Empirical, sorted, nil)
}

// MeanStdDev returns the mean and sample standard deviation of values.
// The deviation is 0 for fewer than two values.
func MeanStdDev(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	mean, std = stat.MeanStdDev(values, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

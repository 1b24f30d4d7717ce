// Package formulas holds small numeric helpers shared by the analysis modules.
package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values.
// Fewer than two observations have no spread and return 0.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Median returns the middle value of data, averaging the two middle values
// for even lengths. The input is not modified.
func Median(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// RelativeDiff returns |a-b| divided by the larger of |a|, |b| and floor.
// floor bounds the scale away from zero when both values vanish.
func RelativeDiff(a, b, floor float64) float64 {
	diff := math.Abs(a - b)
	if diff == 0 {
		return 0
	}
	scale := math.Max(math.Max(math.Abs(a), math.Abs(b)), floor)
	return diff / scale
}

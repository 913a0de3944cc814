package stats

import (
	"math"
	"slices"
)

// CalculateMedian finds the median of values without reordering them.
func CalculateMedian[T int64 | float64](values []T) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := slices.Clone(values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return float64(temp[n/2])
	}
	return (float64(temp[n/2-1]) + float64(temp[n/2])) / 2.0
}

// ClampNonNegative floors derived display values at zero. It is applied when
// presenting ratios, never inside ranking or classification.
func ClampNonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Package stats provides summary statistics over numeric columns.
// Population formulas (÷n) are used unless a function says otherwise.
package stats

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Sentinel errors.
var (
	ErrNoMode             = errors.New("no unique mode")
	ErrLengthMismatch     = errors.New("value lists differ in length")
	ErrTooFewValues       = errors.New("at least two values are required")
	ErrUnknownDigitMethod = errors.New("unknown digit method")
	ErrNotNumeric         = errors.New("value is not numeric")
)

// Mean returns the arithmetic mean of values.
// Returns 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64

	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// MeanStdDev returns the arithmetic mean and population standard deviation.
// Returns (0, 0) for an empty slice.
func MeanStdDev(values []float64) (mean, stddev float64) {
	mean, variance := meanVariance(values)

	return mean, math.Sqrt(variance)
}

// Variance returns the population variance of values.
// Returns 0 for an empty slice.
func Variance(values []float64) float64 {
	_, variance := meanVariance(values)

	return variance
}

func meanVariance(values []float64) (mean, variance float64) {
	count := len(values)
	if count == 0 {
		return 0, 0
	}

	mean = Mean(values)

	var sumSq float64

	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}

	return mean, sumSq / float64(count)
}

// SampleStdDev returns the sample standard deviation (÷(n−1)).
// Returns 0 for fewer than two values.
func SampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	return stat.StdDev(values, nil)
}

// Well-known percentile thresholds.
const (
	PercentileMedian = 0.5
	PercentileP95    = 0.95
)

// Percentile returns the p-th percentile of values using linear interpolation.
// p must be in [0, 1]. The input slice is not modified (a copy is sorted internally).
// Returns 0 for an empty slice.
func Percentile(values []float64, p float64) float64 {
	count := len(values)
	if count == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	idx := Clamp(p, 0, 1) * float64(count-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))

	if lower == upper || upper >= count {
		return sorted[lower]
	}

	frac := idx - float64(lower)

	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// Median returns the 50th percentile of values.
// Returns 0 for an empty slice.
func Median(values []float64) float64 {
	return Percentile(values, PercentileMedian)
}

// Mode returns the single most frequent value.
// ErrNoMode is returned when no value occurs more often than every other,
// which includes empty input and input where every value is distinct.
func Mode(values []float64) (float64, error) {
	counts := make(map[float64]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	var (
		best      float64
		bestCount int
		tied      bool
	)

	for v, c := range counts {
		switch {
		case c > bestCount:
			best, bestCount, tied = v, c, false
		case c == bestCount:
			tied = true
		}
	}

	if bestCount < 2 || tied {
		return 0, ErrNoMode
	}

	return best, nil
}

// ELFI returns the Ethno-Linguistic Fractionalization Index of a population
// split into the given shares: 1 − Σ share².
// Shares are expected to sum to 1.
func ELFI(shares []float64) float64 {
	var sumSq float64

	for _, s := range shares {
		sumSq += s * s
	}

	return 1 - sumSq
}

// Clamp restricts val to the range [lo, hi].
func Clamp[T cmp.Ordered](val, lo, hi T) T {
	return max(lo, min(val, hi))
}

// Min returns the smallest element in values.
// Returns the zero value of T for an empty slice.
func Min[T cmp.Ordered](values []T) T {
	if len(values) == 0 {
		var zero T

		return zero
	}

	return slices.Min(values)
}

// Max returns the largest element in values.
// Returns the zero value of T for an empty slice.
func Max[T cmp.Ordered](values []T) T {
	if len(values) == 0 {
		var zero T

		return zero
	}

	return slices.Max(values)
}

// Sum returns the sum of all elements in values.
// Returns the zero value of T for an empty slice.
func Sum[T cmp.Ordered](values []T) T {
	var result T

	for _, v := range values {
		result += v
	}

	return result
}

package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Pearson returns the Pearson product-moment correlation coefficient of x and y.
// The result is NaN when either list has zero variance.
func Pearson(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(x), len(y))
	}

	if len(x) < 2 {
		return 0, fmt.Errorf("%w: got %d", ErrTooFewValues, len(x))
	}

	return stat.Correlation(x, y, nil), nil
}

// correlationOrZero is Pearson with an undefined coefficient reported as 0.
func correlationOrZero(x, y []float64) (float64, error) {
	r, err := Pearson(x, y)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(r) {
		return 0, nil
	}

	return r, nil
}

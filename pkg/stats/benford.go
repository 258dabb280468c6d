package stats

import (
	"fmt"
	"math"
	"strconv"
)

// DigitMethod selects which digit of each number is tallied.
type DigitMethod string

// Digit methods.
const (
	FirstDigit DigitMethod = "first_digit"
	LastDigit  DigitMethod = "last_digit"
)

// ParseDigitMethod validates a method name.
func ParseDigitMethod(s string) (DigitMethod, error) {
	switch m := DigitMethod(s); m {
	case FirstDigit, LastDigit:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDigitMethod, s)
	}
}

// DigitRow is one line of a Benford report.
type DigitRow struct {
	Digit    int     `json:"digit"    yaml:"digit"`
	Count    int     `json:"count"    yaml:"count"`
	Observed float64 `json:"observed" yaml:"observed"`
	Expected float64 `json:"expected" yaml:"expected"`
}

// BenfordResult is the outcome of a digit-frequency test.
type BenfordResult struct {
	Method DigitMethod `json:"method" yaml:"method"`
	Rows   []DigitRow  `json:"rows"   yaml:"rows"`
	// Correlation is the Pearson coefficient between observed and expected
	// shares; 0 when it is undefined.
	Correlation float64 `json:"correlation" yaml:"correlation"`
	// Counted is the number of values that had a usable digit.
	Counted int `json:"counted" yaml:"counted"`
}

// Benford tests values against Benford's law and returns the correlation
// between the observed and expected digit distributions.
func Benford(values []float64, method DigitMethod) (float64, error) {
	res, err := BenfordReport(values, method)
	if err != nil {
		return 0, err
	}

	return res.Correlation, nil
}

// BenfordReport is Benford with the per-digit table.
//
// For first_digit the leading non-zero digit (1–9) is compared with the
// logarithmic Benford distribution. For last_digit the final digit of the
// integer part (0–9) is compared with a uniform distribution. Zero, NaN and
// infinite values carry no first digit and are skipped.
//
// Correlation is Pearson(expected, observed) over digits in ascending order,
// so a good fit is positive. Some older implementations report the same
// test with the opposite sign (for 1..10, first_digit, they give about
// -0.864 where this returns +0.864); negate to compare with them.
func BenfordReport(values []float64, method DigitMethod) (BenfordResult, error) {
	if _, err := ParseDigitMethod(string(method)); err != nil {
		return BenfordResult{}, err
	}

	digits := firstDigits()
	digitOf := firstDigit

	if method == LastDigit {
		digits = lastDigits()
		digitOf = lastDigit
	}

	counts := make(map[int]int, len(digits))
	counted := 0

	for _, v := range values {
		d, ok := digitOf(v)
		if !ok {
			continue
		}

		counts[d]++
		counted++
	}

	rows := make([]DigitRow, len(digits))
	observed := make([]float64, len(digits))
	expected := make([]float64, len(digits))

	for i, d := range digits {
		rows[i] = DigitRow{Digit: d.digit, Count: counts[d.digit], Expected: d.expected}
		if counted > 0 {
			rows[i].Observed = float64(counts[d.digit]) / float64(counted)
		}

		observed[i] = rows[i].Observed
		expected[i] = d.expected
	}

	r, err := correlationOrZero(expected, observed)
	if err != nil {
		return BenfordResult{}, err
	}

	return BenfordResult{Method: method, Rows: rows, Correlation: r, Counted: counted}, nil
}

type digitShare struct {
	digit    int
	expected float64
}

func firstDigits() []digitShare {
	out := make([]digitShare, 0, 9)
	for d := 1; d <= 9; d++ {
		out = append(out, digitShare{digit: d, expected: math.Log10(1 + 1/float64(d))})
	}

	return out
}

func lastDigits() []digitShare {
	out := make([]digitShare, 0, 10)
	for d := range 10 {
		out = append(out, digitShare{digit: d, expected: 0.1})
	}

	return out
}

func firstDigit(v float64) (int, bool) {
	v = math.Abs(v)
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	// %e always prints one significant digit before the point.
	s := strconv.FormatFloat(v, 'e', -1, 64)

	return int(s[0] - '0'), true
}

func lastDigit(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	s := strconv.FormatFloat(math.Trunc(math.Abs(v)), 'f', 0, 64)

	return int(s[len(s)-1] - '0'), true
}

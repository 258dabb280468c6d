package record_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/calculate/pkg/record"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		want  record.Class
	}{
		{name: "int", input: 1, want: record.ClassNumber},
		{name: "uint8", input: uint8(1), want: record.ClassNumber},
		{name: "float", input: 1.5, want: record.ClassNumber},
		{name: "bool", input: true, want: record.ClassNumber},
		{name: "json_number", input: json.Number("3"), want: record.ClassNumber},
		{name: "string", input: "a", want: record.ClassString},
		{name: "named_string", input: region("west"), want: record.ClassString},
		{name: "time", input: time.Unix(0, 0), want: record.ClassTime},
		{name: "nil", input: nil, want: record.ClassNone},
		{name: "slice", input: []int{1}, want: record.ClassNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, record.Classify(tt.input))
		})
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b any
		want int
	}{
		{name: "int_less", a: 1, b: 2, want: -1},
		{name: "int_equal", a: 2, b: 2, want: 0},
		{name: "int_float_mixed", a: 2, b: 1.5, want: 1},
		{name: "int_json_number", a: 3, b: json.Number("3"), want: 0},
		{name: "negative_vs_uint", a: -1, b: uint(0), want: -1},
		{name: "uint_vs_int", a: uint64(math.MaxUint64), b: int64(math.MaxInt64), want: 1},
		{name: "large_ints_exact", a: int64(1<<62 + 1), b: int64(1 << 62), want: 1},
		{name: "nan_lowest", a: math.NaN(), b: -1e300, want: -1},
		{name: "bool_as_number", a: true, b: 0, want: 1},
		{name: "strings", a: "apple", b: "banana", want: -1},
		{name: "named_strings", a: region("b"), b: "a", want: 1},
		{name: "times", a: time.Unix(10, 0), b: time.Unix(5, 0), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := record.Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare_IntFloatExact(t *testing.T) {
	t.Parallel()

	const big = 1 << 53

	tests := []struct {
		name string
		a, b any
		want int
	}{
		{name: "equal_at_2_53", a: int64(big), b: float64(big), want: 0},
		{name: "int_above_float", a: int64(big + 1), b: float64(big), want: 1},
		{name: "float_below_int", a: float64(big), b: int64(big + 1), want: -1},
		{name: "uint_above_float", a: uint64(big + 1), b: float64(big), want: 1},
		{name: "fraction_above", a: 2, b: 2.25, want: -1},
		{name: "negative_fraction", a: -2, b: -2.5, want: 1},
		{name: "beyond_int64", a: int64(math.MaxInt64), b: 1e19, want: -1},
		{name: "below_int64", a: int64(math.MinInt64), b: -1e19, want: 1},
		{name: "uint_negative_float", a: uint64(0), b: -0.5, want: 1},
		{name: "uint_beyond_uint64", a: uint64(math.MaxUint64), b: 1e20, want: -1},
		{name: "positive_inf", a: 1, b: math.Inf(1), want: -1},
		{name: "negative_inf", a: 1, b: math.Inf(-1), want: 1},
		{name: "int_vs_nan", a: 0, b: math.NaN(), want: 1},
		{name: "nan_vs_int", a: math.NaN(), b: 0, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := record.Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare_IntFloatTransitive(t *testing.T) {
	t.Parallel()

	const big = 1 << 53

	values := []any{int64(big), float64(big), int64(big + 1)}

	ab, err := record.Compare(values[0], values[1])
	require.NoError(t, err)

	bc, err := record.Compare(values[1], values[2])
	require.NoError(t, err)

	ac, err := record.Compare(values[0], values[2])
	require.NoError(t, err)

	assert.Equal(t, 0, ab)
	assert.Equal(t, -1, bc)
	assert.Equal(t, -1, ac)
}

func TestCompare_Incomparable(t *testing.T) {
	t.Parallel()

	pairs := [][2]any{
		{1, "1"},
		{"a", time.Now()},
		{nil, 1},
		{[]int{1}, []int{1}},
	}

	for _, pair := range pairs {
		_, err := record.Compare(pair[0], pair[1])
		require.ErrorIs(t, err, record.ErrIncomparable)
	}
}

func TestClass_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "number", record.ClassNumber.String())
	assert.Equal(t, "string", record.ClassString.String())
	assert.Equal(t, "time", record.ClassTime.String())
	assert.Equal(t, "none", record.ClassNone.String())
}

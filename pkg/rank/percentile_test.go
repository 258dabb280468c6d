package rank_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/calculate/pkg/rank"
)

func sequence(n int) []*person {
	out := make([]*person, n)
	for i := range out {
		out[i] = &person{Value: i + 1}
	}

	return out
}

func TestPercentile_Boundaries(t *testing.T) {
	t.Parallel()

	collection := sequence(4)

	want := []float64{25, 50, 75, 100}

	for i, rec := range collection {
		got, err := rank.Percentile(collection, rec)
		require.NoError(t, err)
		assert.InDelta(t, want[i], got, 1e-9)
	}

	// Ascending: the smallest value is the best.
	got, err := rank.Percentile(collection, collection[0], rank.WithDirection(rank.Ascending))
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got, 1e-9)

	got, err = rank.Percentile(collection, collection[3], rank.WithDirection(rank.Ascending))
	require.NoError(t, err)
	assert.InDelta(t, 25.0, got, 1e-9)
}

func TestPercentile_Single(t *testing.T) {
	t.Parallel()

	collection := sequence(1)

	got, err := rank.Percentile(collection, collection[0])
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got, 1e-9)

	d, err := rank.Decile(collection, collection[0])
	require.NoError(t, err)
	assert.Equal(t, 10, d)
}

func TestPercentile_Range(t *testing.T) {
	t.Parallel()

	collection := sequence(37)

	for _, rec := range collection {
		got, err := rank.Percentile(collection, rec)
		require.NoError(t, err)
		assert.Greater(t, got, 0.0)
		assert.LessOrEqual(t, got, 100.0)
	}
}

func TestDecile_Buckets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    int
		want []int // deciles in input order, values ascending 1..n ranked descending.
	}{
		{name: "four", n: 4, want: []int{3, 5, 8, 10}},
		{name: "ten", n: 10, want: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{name: "twenty", n: 20, want: []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10}},
		{name: "three", n: 3, want: []int{4, 7, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			collection := sequence(tt.n)
			got := make([]int, tt.n)

			for i, rec := range collection {
				d, err := rank.Decile(collection, rec)
				require.NoError(t, err)

				got[i] = d
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecile_Ascending(t *testing.T) {
	t.Parallel()

	collection := sequence(10)

	d, err := rank.Decile(collection, collection[0], rank.WithDirection(rank.Ascending))
	require.NoError(t, err)
	assert.Equal(t, 10, d)

	d, err = rank.DecileAt(collection, 9, rank.WithDirection(rank.Ascending))
	require.NoError(t, err)
	assert.Equal(t, 1, d)
}

package geo_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/calculate/pkg/geo"
	"github.com/Sumatoshi-tech/calculate/pkg/record"
)

type landmark struct {
	Name  string
	Point geo.Point
}

var downtown = []geo.Point{
	{X: -118.24551701545715, Y: 34.05252608491458},
	{X: -118.245015, Y: 34.051007},
	{X: -118.24301719665527, Y: 34.05357499274671},
}

func TestMeanCenter_Shapes(t *testing.T) {
	t.Parallel()

	want := geo.Point{X: -118.24451640403747, Y: 34.05236935922043}

	maps := make([]map[string]any, len(downtown))
	structs := make([]*landmark, len(downtown))
	wkt := make([]map[string]any, len(downtown))
	decoded := make([]any, len(downtown))

	for i, p := range downtown {
		maps[i] = map[string]any{"point": p}
		structs[i] = &landmark{Point: p}
		wkt[i] = map[string]any{"point": p.WKT()}
		decoded[i] = map[string]any{"point": map[string]any{
			"x": json.Number(formatFloat(p.X)),
			"y": json.Number(formatFloat(p.Y)),
		}}
	}

	for name, run := range map[string]func() (geo.Point, error){
		"maps":    func() (geo.Point, error) { return geo.MeanCenter(maps, "point") },
		"structs": func() (geo.Point, error) { return geo.MeanCenter(structs, "point") },
		"wkt":     func() (geo.Point, error) { return geo.MeanCenter(wkt, "point") },
		"decoded": func() (geo.Point, error) { return geo.MeanCenter(decoded, "point") },
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := run()
			require.NoError(t, err)
			assert.InDelta(t, want.X, got.X, 1e-12)
			assert.InDelta(t, want.Y, got.Y, 1e-12)
		})
	}
}

func formatFloat(f float64) string {
	b, _ := json.Marshal(f)

	return string(b)
}

func TestMeanCenter_Errors(t *testing.T) {
	t.Parallel()

	_, err := geo.MeanCenter([]any{}, "point")
	require.ErrorIs(t, err, geo.ErrEmptyCollection)

	_, err = geo.MeanCenter([]any{map[string]any{"point": true}}, "point")
	require.ErrorIs(t, err, geo.ErrNotAPoint)

	_, err = geo.MeanCenter([]any{map[string]any{"name": "x"}}, "point")
	require.ErrorIs(t, err, record.ErrFieldNotFound)
}

func TestPointOf(t *testing.T) {
	t.Parallel()

	p := geo.Point{X: 1, Y: 2}

	for name, in := range map[string]any{
		"value":   p,
		"pointer": &p,
		"wkt":     "point (1 2)",
		"list":    []any{1, 2.0},
		"floats":  []float64{1, 2},
		"record":  map[string]any{"x": 1, "y": 2},
	} {
		got, err := geo.PointOf(in)
		require.NoError(t, err, name)
		assert.Equal(t, p, got, name)
	}

	for name, in := range map[string]any{
		"bad_wkt":    "LINESTRING (1 2, 3 4)",
		"short_list": []any{1},
		"text_list":  []any{"a", "b"},
		"nil_ptr":    (*geo.Point)(nil),
	} {
		_, err := geo.PointOf(in)
		require.ErrorIs(t, err, geo.ErrNotAPoint, name)
	}
}

func TestWKT_RoundTrip(t *testing.T) {
	t.Parallel()

	p := downtown[0]
	assert.Equal(t, "POINT (-118.24551701545715 34.05252608491458)", p.WKT())

	back, err := geo.ParseWKT(p.WKT())
	require.NoError(t, err)
	assert.Equal(t, p, back)
}

func TestNudge(t *testing.T) {
	t.Parallel()

	shared := geo.Point{X: 10, Y: 20}
	in := []geo.Point{shared, {X: 0, Y: 0}, shared, shared}

	out := geo.Nudge(in, 1)

	require.Len(t, out, 4)
	assert.Equal(t, shared, out[0], "first of a group stays put")
	assert.Equal(t, geo.Point{X: 0, Y: 0}, out[1])
	assert.InDelta(t, 11, out[2].X, 1e-12)
	assert.InDelta(t, 20, out[2].Y, 1e-12)
	assert.InDelta(t, 9, out[3].X, 1e-12)
	assert.InDelta(t, 20, out[3].Y, 1e-12)

	for _, p := range out[2:] {
		assert.InDelta(t, 1, math.Hypot(p.X-shared.X, p.Y-shared.Y), 1e-12)
	}

	assert.Equal(t, shared, in[2], "input is not modified")
}

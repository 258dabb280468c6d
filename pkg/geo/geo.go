// Package geo computes the mean center of located records and spreads
// overlapping points apart for display.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/calculate/pkg/record"
	"github.com/Sumatoshi-tech/calculate/pkg/safeconv"
)

// Sentinel errors.
var (
	ErrEmptyCollection = errors.New("empty collection")
	ErrNotAPoint       = errors.New("value is not a point")
)

// Point is a planar coordinate; X is longitude and Y latitude.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// WKT renders p as well-known text, e.g. "POINT (-118.2 34.05)".
func (p Point) WKT() string {
	return "POINT (" + formatCoord(p.X) + " " + formatCoord(p.Y) + ")"
}

func (p Point) String() string { return p.WKT() }

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseWKT reads a POINT in well-known text.
func ParseWKT(s string) (Point, error) {
	body, ok := strings.CutPrefix(strings.ToUpper(strings.TrimSpace(s)), "POINT")
	if !ok {
		return Point{}, fmt.Errorf("%w: %q", ErrNotAPoint, s)
	}

	body = strings.TrimSpace(body)

	body, ok = strings.CutPrefix(body, "(")
	if !ok {
		return Point{}, fmt.Errorf("%w: %q", ErrNotAPoint, s)
	}

	body, ok = strings.CutSuffix(body, ")")
	if !ok {
		return Point{}, fmt.Errorf("%w: %q", ErrNotAPoint, s)
	}

	coords := strings.Fields(body)
	if len(coords) != 2 {
		return Point{}, fmt.Errorf("%w: %q", ErrNotAPoint, s)
	}

	x, errX := strconv.ParseFloat(coords[0], 64)
	y, errY := strconv.ParseFloat(coords[1], 64)

	if err := errors.Join(errX, errY); err != nil {
		return Point{}, fmt.Errorf("%w: %q: %w", ErrNotAPoint, s, err)
	}

	return Point{X: x, Y: y}, nil
}

// Located is implemented by values that carry their own coordinates.
type Located interface {
	Location() Point
}

// PointOf converts a field value to a Point. Accepted forms are Point,
// *Point, Located, a WKT string, a two-number [x, y] list and any record
// with numeric x and y fields.
func PointOf(v any) (Point, error) {
	switch val := v.(type) {
	case Point:
		return val, nil
	case *Point:
		if val == nil {
			return Point{}, fmt.Errorf("%w: nil", ErrNotAPoint)
		}

		return *val, nil
	case Located:
		return val.Location(), nil
	case string:
		return ParseWKT(val)
	case []any:
		return pairOf(val...)
	case []float64:
		if len(val) != 2 {
			return Point{}, fmt.Errorf("%w: %d coordinates", ErrNotAPoint, len(val))
		}

		return Point{X: val[0], Y: val[1]}, nil
	}

	return fieldsOf(v)
}

func pairOf(vals ...any) (Point, error) {
	if len(vals) != 2 {
		return Point{}, fmt.Errorf("%w: %d coordinates", ErrNotAPoint, len(vals))
	}

	x, okX := safeconv.ToFloat64(vals[0])
	y, okY := safeconv.ToFloat64(vals[1])

	if !okX || !okY {
		return Point{}, fmt.Errorf("%w: non-numeric coordinates", ErrNotAPoint)
	}

	return Point{X: x, Y: y}, nil
}

func fieldsOf(v any) (Point, error) {
	rawX, errX := record.Get(v, "x")
	rawY, errY := record.Get(v, "y")

	if err := errors.Join(errX, errY); err != nil {
		return Point{}, fmt.Errorf("%w: %T", ErrNotAPoint, v)
	}

	return pairOf(rawX, rawY)
}

// MeanCenter returns the average location of the points stored in field.
func MeanCenter[T any](collection []T, field string) (Point, error) {
	if len(collection) == 0 {
		return Point{}, ErrEmptyCollection
	}

	var sumX, sumY float64

	for i, rec := range collection {
		raw, err := record.Get(rec, field)
		if err != nil {
			return Point{}, fmt.Errorf("record %d: %w", i, err)
		}

		p, err := PointOf(raw)
		if err != nil {
			return Point{}, fmt.Errorf("record %d: field %q: %w", i, field, err)
		}

		sumX += p.X
		sumY += p.Y
	}

	n := float64(len(collection))

	return Point{X: sumX / n, Y: sumY / n}, nil
}

// Nudge returns a copy of points where points sharing exact coordinates are
// spread evenly around a circle of the given radius. The first point of
// each group keeps its position.
func Nudge(points []Point, radius float64) []Point {
	out := make([]Point, len(points))
	copy(out, points)

	groups := make(map[Point][]int)
	for i, p := range points {
		groups[p] = append(groups[p], i)
	}

	for center, members := range groups {
		moved := members[1:]
		if len(moved) == 0 {
			continue
		}

		step := 2 * math.Pi / float64(len(moved))

		for k, idx := range moved {
			angle := step * float64(k)
			out[idx] = Point{
				X: center.X + radius*math.Cos(angle),
				Y: center.Y + radius*math.Sin(angle),
			}
		}
	}

	return out
}

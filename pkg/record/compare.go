package record

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"
)

// ErrIncomparable indicates values that share no ordering.
var ErrIncomparable = errors.New("values are not comparable")

// Class groups values that are mutually ordered.
type Class int

// Value classes.
const (
	ClassNone Class = iota
	ClassNumber
	ClassString
	ClassTime
)

var timeType = reflect.TypeFor[time.Time]()

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassNumber:
		return "number"
	case ClassString:
		return "string"
	case ClassTime:
		return "time"
	default:
		return "none"
	}
}

// Classify returns the ordering class of v.
// Integers, floats, bools and json.Number are numbers; any string kind is a
// string; time.Time is a time. Anything else, including nil, has no class.
func Classify(v any) Class {
	if v == nil {
		return ClassNone
	}

	if _, ok := v.(json.Number); ok {
		return ClassNumber
	}

	rv := reflect.ValueOf(v)
	if rv.Type() == timeType {
		return ClassTime
	}

	switch rv.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return ClassNumber
	case reflect.String:
		return ClassString
	default:
		return ClassNone
	}
}

// Compare orders a against b, returning -1, 0 or +1.
// Both values must belong to the same [Class]. Integers are compared exactly;
// floats follow cmp.Compare, so NaN sorts below every other number.
func Compare(a, b any) (int, error) {
	ca, cb := Classify(a), Classify(b)
	if ca == ClassNone || ca != cb {
		return 0, fmt.Errorf("%w: %T and %T", ErrIncomparable, a, b)
	}

	switch ca {
	case ClassString:
		return cmp.Compare(reflect.ValueOf(a).String(), reflect.ValueOf(b).String()), nil
	case ClassTime:
		return a.(time.Time).Compare(b.(time.Time)), nil //nolint:forcetypeassert // classified above.
	default:
		return compareNumbers(number(a), number(b)), nil
	}
}

// num is a number in its most exact available representation.
type num struct {
	i    int64
	u    uint64
	f    float64
	kind byte // 'i', 'u' or 'f'.
}

func number(v any) num {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return num{i: i, kind: 'i'}
		}

		f, err := n.Float64()
		if err != nil {
			f = math.NaN()
		}

		return num{f: f, kind: 'f'}
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return num{i: 1, kind: 'i'}
		}

		return num{kind: 'i'}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return num{i: rv.Int(), kind: 'i'}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return num{u: rv.Uint(), kind: 'u'}
	default:
		return num{f: rv.Float(), kind: 'f'}
	}
}

func compareNumbers(a, b num) int {
	switch {
	case a.kind == 'i' && b.kind == 'i':
		return cmp.Compare(a.i, b.i)
	case a.kind == 'u' && b.kind == 'u':
		return cmp.Compare(a.u, b.u)
	case a.kind == 'i' && b.kind == 'u':
		if a.i < 0 {
			return -1
		}

		return cmp.Compare(uint64(a.i), b.u)
	case a.kind == 'u' && b.kind == 'i':
		return -compareNumbers(b, a)
	case a.kind == 'f' && b.kind == 'f':
		return cmp.Compare(a.f, b.f)
	case b.kind == 'f':
		return compareWithFloat(a, b.f)
	default:
		return -compareWithFloat(b, a.f)
	}
}

// Float bounds of the integer kinds; both are exact powers of two.
const (
	twoTo63 float64 = 1 << 63
	twoTo64 float64 = 1 << 64
)

// compareWithFloat orders the integer n against f without rounding n.
// NaN sorts below every number, as in cmp.Compare.
func compareWithFloat(n num, f float64) int {
	if math.IsNaN(f) {
		return 1
	}

	whole := math.Trunc(f)

	var byWhole int

	if n.kind == 'u' {
		switch {
		case whole < 0:
			return 1
		case whole >= twoTo64:
			return -1
		}

		byWhole = cmp.Compare(n.u, uint64(whole))
	} else {
		switch {
		case whole < -twoTo63:
			return 1
		case whole >= twoTo63:
			return -1
		}

		byWhole = cmp.Compare(n.i, int64(whole))
	}

	if byWhole != 0 {
		return byWhole
	}

	// Equal integer parts: the fraction decides.
	return cmp.Compare(whole, f)
}


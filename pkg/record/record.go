// Package record reads named fields off heterogeneous records.
//
// Three record shapes are supported behind one capability, [Record]:
//   - mappings: any map keyed by a string kind, looked up by key;
//   - objects: structs (through any number of pointers), read by attribute;
//   - models: structs that also carry a persistence identity.
//
// Models are read through the same attribute path as objects. The identity only
// matters to shape detection ([ShapeOf]).
package record

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors.
var (
	// ErrFieldNotFound indicates that neither key lookup nor attribute access resolved the field.
	ErrFieldNotFound = errors.New("field not found")
	// ErrNilRecord indicates a nil record or a nil pointer to one.
	ErrNilRecord = errors.New("nil record")
	// ErrUnsupportedRecord indicates a value that is neither a mapping nor an attribute-bearing struct.
	ErrUnsupportedRecord = errors.New("unsupported record type")
)

// Record is a field-readable record.
type Record interface {
	// Field returns the value stored under name. Implementations must wrap
	// ErrFieldNotFound when the field does not exist.
	Field(name string) (any, error)
}

// Identified is implemented by model instances exposing their persistence identity.
type Identified interface {
	PrimaryKey() any
}

// Shape classifies a record by how its fields are reached.
type Shape int

// Record shapes.
const (
	ShapeUnknown Shape = iota
	ShapeMapping
	ShapeObject
	ShapeModel
)

var shapeNames = map[Shape]string{
	ShapeUnknown: "unknown",
	ShapeMapping: "mapping",
	ShapeObject:  "object",
	ShapeModel:   "model",
}

// String returns the lower-case shape name.
func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}

	return fmt.Sprintf("shape(%d)", int(s))
}

// Get returns the value of the named field of rec.
//
// Records implementing [Record] are asked directly. Mappings are looked up by
// key; everything else falls back to attribute access. A field that no path
// resolves fails with ErrFieldNotFound; no default is ever substituted.
func Get(rec any, name string) (any, error) {
	adapted, err := Adapt(rec)
	if err != nil {
		return nil, err
	}

	return adapted.Field(name)
}

// Adapt selects the adapter for rec. It is the only place where concrete
// record shapes are inspected.
func Adapt(rec any) (Record, error) {
	switch val := rec.(type) {
	case nil:
		return nil, ErrNilRecord
	case Record:
		return val, nil
	case map[string]any:
		return Map(val), nil
	}

	rv, err := indirect(reflect.ValueOf(rec))
	if err != nil {
		return nil, err
	}

	switch {
	case isStringKeyedMap(rv):
		return reflectMap{rv: rv}, nil
	case rv.Kind() == reflect.Struct:
		if isModel(rec, rv) {
			return NewModel(rec), nil
		}

		return NewObject(rec), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedRecord, rec)
	}
}

// ShapeOf reports the shape of rec. It never fails; unreadable values are ShapeUnknown.
func ShapeOf(rec any) Shape {
	switch rec.(type) {
	case Map:
		return ShapeMapping
	case Object:
		return ShapeObject
	case Model:
		return ShapeModel
	case Identified:
		return ShapeModel
	}

	rv, err := indirect(reflect.ValueOf(rec))
	if err != nil {
		return ShapeUnknown
	}

	switch {
	case isStringKeyedMap(rv):
		return ShapeMapping
	case rv.Kind() == reflect.Struct && isModel(rec, rv):
		return ShapeModel
	case rv.Kind() == reflect.Struct:
		return ShapeObject
	default:
		return ShapeUnknown
	}
}

func notFound(name string) error {
	return fmt.Errorf("%w: %q", ErrFieldNotFound, name)
}

// indirect follows pointers and interfaces down to the concrete value.
func indirect(rv reflect.Value) (reflect.Value, error) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, ErrNilRecord
		}

		rv = rv.Elem()
	}

	if !rv.IsValid() {
		return reflect.Value{}, ErrNilRecord
	}

	return rv, nil
}

func isStringKeyedMap(rv reflect.Value) bool {
	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
}

package record

import (
	"fmt"
	"reflect"
)

// Enumerable is implemented by records that can list their own field names.
type Enumerable interface {
	FieldNames() []string
}

// Unwrapper is implemented by adapters that wrap another value.
type Unwrapper interface {
	Unwrap() any
}

// Fields returns every field of rec as a fresh map.
// Struct fields are published under the same names Get resolves first
// (calc tag, json tag, Go field name); getter methods are not included.
func Fields(rec any) (map[string]any, error) {
	if u, ok := rec.(Unwrapper); ok {
		rec = u.Unwrap()
	}

	if e, ok := rec.(Enumerable); ok {
		return enumerate(rec, e.FieldNames())
	}

	if rec == nil {
		return nil, ErrNilRecord
	}

	rv, err := indirect(reflect.ValueOf(rec))
	if err != nil {
		return nil, err
	}

	switch {
	case isStringKeyedMap(rv):
		out := make(map[string]any, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}

		return out, nil
	case rv.Kind() == reflect.Struct:
		out := make(map[string]any)

		for _, f := range reflect.VisibleFields(rv.Type()) {
			if !f.IsExported() || f.Anonymous || skipped(f) {
				continue
			}

			name := fieldName(f)
			if _, seen := out[name]; seen {
				continue
			}

			// Resolve through structField so duplicate names follow Get's precedence.
			if val, ok := structField(rv, name); ok {
				out[name] = val
			}
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedRecord, rec)
	}
}

func enumerate(rec any, names []string) (map[string]any, error) {
	adapted, err := Adapt(rec)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(names))

	for _, name := range names {
		val, fieldErr := adapted.Field(name)
		if fieldErr != nil {
			return nil, fieldErr
		}

		out[name] = val
	}

	return out, nil
}

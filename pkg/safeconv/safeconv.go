// Package safeconv converts loosely typed values to numbers.
package safeconv

import (
	"encoding/json"
	"reflect"
)

// ToFloat64 converts any numeric value to float64.
// Supports every Go integer and float kind (including named types such as
// time.Month), bool (1 or 0) and json.Number.
func ToFloat64(value any) (float64, bool) {
	switch val := value.(type) {
	case nil:
		return 0, false
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}

		return 0, true
	case json.Number:
		f, err := val.Float64()

		return f, err == nil
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

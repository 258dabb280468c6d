package stats

import (
	"fmt"

	"github.com/Sumatoshi-tech/calculate/pkg/record"
	"github.com/Sumatoshi-tech/calculate/pkg/safeconv"
)

// Values reads field from every record of collection as a float64 column.
func Values[T any](collection []T, field string) ([]float64, error) {
	out := make([]float64, len(collection))

	for i, rec := range collection {
		raw, err := record.Get(rec, field)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		v, ok := safeconv.ToFloat64(raw)
		if !ok {
			return nil, fmt.Errorf("record %d: field %q: %w: %T", i, field, ErrNotNumeric, raw)
		}

		out[i] = v
	}

	return out, nil
}

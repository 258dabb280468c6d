package rank

// Result describes one record's standing.
type Result struct {
	// Index is the record's position in the input collection.
	Index int `json:"index" yaml:"index"`
	// Value is the ranked field value.
	Value any `json:"value" yaml:"value"`
	// Ordinal is the distinct 1-based rank.
	Ordinal int `json:"ordinal" yaml:"ordinal"`
	// Competition is the shared 1-based rank (1, 2, 2, 4).
	Competition int `json:"competition" yaml:"competition"`
	// Percentile is in (0, 100]; the best record scores 100.
	Percentile float64 `json:"percentile" yaml:"percentile"`
	// Decile is in [1, 10]; 10 is the best bucket.
	Decile int `json:"decile" yaml:"decile"`
}

// Table ranks every record of collection with a single sort.
// Results are returned in input order and agree with Ordinal, Competition,
// Percentile and Decile called on each record.
func Table[T any](collection []T, opts ...Option) ([]Result, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	if len(collection) == 0 {
		return nil, ErrEmptyCollection
	}

	col, err := extract(collection, o)
	if err != nil {
		return nil, err
	}

	n := len(collection)
	results := make([]Result, n)
	order := col.order()

	groupStart := 0

	for pos, idx := range order {
		// Equal values sit next to each other in the order, so a tie group
		// shares the competition rank of its first member.
		if pos > 0 && col.compare(order[pos-1], idx) != 0 {
			groupStart = pos
		}

		ordinal := pos + 1
		results[idx] = Result{
			Index:       idx,
			Value:       col.values[idx],
			Ordinal:     ordinal,
			Competition: groupStart + 1,
			Percentile:  percentile(n, ordinal),
			Decile:      decile(n, ordinal),
		}
	}

	return results, nil
}

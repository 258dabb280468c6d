// Package calc glues decoded input documents to the library packages. Both
// the CLI and the MCP server call through here so they agree on semantics.
package calc

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/calculate/pkg/lru"
	"github.com/Sumatoshi-tech/calculate/pkg/rank"
	"github.com/Sumatoshi-tech/calculate/pkg/record"
	"github.com/Sumatoshi-tech/calculate/pkg/safeconv"
	"github.com/Sumatoshi-tech/calculate/pkg/stats"
)

// ErrNoRecords is returned when filtering leaves nothing to work with.
var ErrNoRecords = errors.New("no records to process")

// compiledCacheSize bounds the CEL expressions kept between requests.
const compiledCacheSize = 256

type exprKey struct{ name, source string }

var (
	filters     = lru.New[string, *record.Filter](compiledCacheSize)
	expressions = lru.New[exprKey, *record.Expression](compiledCacheSize)
)

func compiledFilter(source string) (*record.Filter, error) {
	return filters.GetOrCreate(source, func() (*record.Filter, error) {
		return record.NewFilter(source)
	})
}

func compiledExpression(name, source string) (*record.Expression, error) {
	return expressions.GetOrCreate(exprKey{name, source}, func() (*record.Expression, error) {
		return record.NewExpression(name, source)
	})
}

// RankRequest selects and orders the records to rank.
type RankRequest struct {
	// Field is ranked. With Expr set it names the computed field.
	Field string
	// Direction is asc or desc; empty means desc.
	Direction string
	// Expr is an optional CEL expression computing Field from each record.
	Expr string
	// Where is an optional CEL predicate; non-matching records are dropped.
	Where string
	// Label names a field shown alongside each row.
	Label string
}

// RankRow is one ranked record.
type RankRow struct {
	rank.Result `yaml:",inline"`

	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Rank ranks items and returns the rows in rank order.
func Rank(items []any, req RankRequest) ([]RankRow, error) {
	field := cmp.Or(req.Field, rank.DefaultField)

	var dir rank.Direction

	if req.Direction != "" {
		parsed, err := rank.ParseDirection(req.Direction)
		if err != nil {
			return nil, err
		}

		dir = parsed
	}

	if req.Where != "" {
		filter, err := compiledFilter(req.Where)
		if err != nil {
			return nil, err
		}

		items, err = record.Select(items, filter)
		if err != nil {
			return nil, err
		}
	}

	if len(items) == 0 {
		return nil, ErrNoRecords
	}

	collection := items

	if req.Expr != "" {
		expr, err := compiledExpression(field, req.Expr)
		if err != nil {
			return nil, err
		}

		collection = make([]any, len(items))
		for i, item := range items {
			collection[i] = expr.Wrap(item)
		}
	}

	results, err := rank.Table(collection,
		rank.WithField(field),
		rank.WithDirection(dir),
	)
	if err != nil {
		return nil, err
	}

	rows := make([]RankRow, len(results))

	for i, res := range results {
		rows[i] = RankRow{Result: res}

		if req.Label == "" {
			continue
		}

		label, err := record.Get(items[i], req.Label)
		if err != nil {
			return nil, fmt.Errorf("label: record %d: %w", i, err)
		}

		rows[i].Label = fmt.Sprint(label)
	}

	slices.SortFunc(rows, func(a, b RankRow) int { return cmp.Compare(a.Ordinal, b.Ordinal) })

	return rows, nil
}

// Column reads a numeric column. With an empty field the items themselves
// must be numbers.
func Column(items []any, field string) ([]float64, error) {
	if field != "" {
		return stats.Values(items, field)
	}

	out := make([]float64, len(items))

	for i, item := range items {
		v, ok := safeconv.ToFloat64(item)
		if !ok {
			return nil, fmt.Errorf("item %d: %w: %T", i, stats.ErrNotNumeric, item)
		}

		out[i] = v
	}

	return out, nil
}

// Correlation is a Pearson result with its inputs' size.
type Correlation struct {
	X           string  `json:"x"           yaml:"x"`
	Y           string  `json:"y"           yaml:"y"`
	N           int     `json:"n"           yaml:"n"`
	Coefficient float64 `json:"coefficient" yaml:"coefficient"`
}

// Pearson correlates two fields of items.
func Pearson(items []any, xField, yField string) (Correlation, error) {
	xs, err := stats.Values(items, xField)
	if err != nil {
		return Correlation{}, err
	}

	ys, err := stats.Values(items, yField)
	if err != nil {
		return Correlation{}, err
	}

	r, err := stats.Pearson(xs, ys)
	if err != nil {
		return Correlation{}, err
	}

	return Correlation{X: xField, Y: yField, N: len(xs), Coefficient: r}, nil
}

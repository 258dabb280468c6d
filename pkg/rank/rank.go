// Package rank positions a record within a collection of heterogeneous records.
//
// Every function reads the ranked field through [record.Get], so maps, structs
// and model instances can be mixed freely as long as the field resolves on
// each of them and its values share an ordering class.
//
// Targets are found by identity, never by value: two distinct records with
// equal fields are still told apart. Value records (plain structs, strings)
// match by ==, so a target equal to several members fails with
// [ErrAmbiguousTarget]; rank those by index with the *At variants.
// Collections are never modified.
package rank

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/calculate/pkg/record"
)

// Sentinel errors.
var (
	// ErrTargetNotFound indicates a target that is not a member of the collection.
	ErrTargetNotFound = errors.New("target not found in collection")
	// ErrNoIdentity indicates a target value that cannot be matched by identity.
	ErrNoIdentity = errors.New("target has no identity")
	// ErrEmptyCollection indicates a positional statistic over zero records.
	ErrEmptyCollection = errors.New("empty collection")
	// ErrInvalidDirection indicates a direction other than asc or desc.
	ErrInvalidDirection = errors.New("invalid direction")
	// ErrAmbiguousTarget indicates a target matching more than one member,
	// e.g. equal struct values. Use the *At variants instead.
	ErrAmbiguousTarget = errors.New("target matches more than one record")
	// ErrIndexOutOfRange indicates an index outside the collection.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// deciles is the number of percentile buckets.
const deciles = 10

// percentScale converts a share to a percentage.
const percentScale = 100

// Ordinal returns the 1-based position of target when collection is sorted by
// the configured field. Ties are broken by position in the collection, in the
// same direction as the values, so every record receives a distinct rank.
func Ordinal[T any](collection []T, target T, opts ...Option) (int, error) {
	idx, err := locate(collection, target)
	if err != nil {
		return 0, err
	}

	return OrdinalAt(collection, idx, opts...)
}

// OrdinalAt is Ordinal for the record at index.
func OrdinalAt[T any](collection []T, index int, opts ...Option) (int, error) {
	col, err := newColumn(collection, index, opts)
	if err != nil {
		return 0, err
	}

	order := col.order()

	return slices.Index(order, index) + 1, nil
}

// Competition returns the sports-standings rank of target: one more than the
// number of records with a strictly better value. Equal values share a rank
// and the following rank skips ahead (1, 2, 2, 4).
func Competition[T any](collection []T, target T, opts ...Option) (int, error) {
	idx, err := locate(collection, target)
	if err != nil {
		return 0, err
	}

	return CompetitionAt(collection, idx, opts...)
}

// CompetitionAt is Competition for the record at index.
func CompetitionAt[T any](collection []T, index int, opts ...Option) (int, error) {
	col, err := newColumn(collection, index, opts)
	if err != nil {
		return 0, err
	}

	better := 0

	for i := range col.values {
		if col.compare(i, index) < 0 {
			better++
		}
	}

	return better + 1, nil
}

// Percentile returns 100 * (N - ordinal + 1) / N. The best record scores 100
// and the worst scores 100/N; the direction is already folded into the
// ordinal rank.
func Percentile[T any](collection []T, target T, opts ...Option) (float64, error) {
	if len(collection) == 0 {
		return 0, ErrEmptyCollection
	}

	idx, err := locate(collection, target)
	if err != nil {
		return 0, err
	}

	return PercentileAt(collection, idx, opts...)
}

// PercentileAt is Percentile for the record at index.
func PercentileAt[T any](collection []T, index int, opts ...Option) (float64, error) {
	if len(collection) == 0 {
		return 0, ErrEmptyCollection
	}

	ordinal, err := OrdinalAt(collection, index, opts...)
	if err != nil {
		return 0, err
	}

	return percentile(len(collection), ordinal), nil
}

// Decile buckets the percentile into ten equal-width bins numbered 1 to 10,
// where 10 holds the best tenth of the collection.
func Decile[T any](collection []T, target T, opts ...Option) (int, error) {
	if len(collection) == 0 {
		return 0, ErrEmptyCollection
	}

	idx, err := locate(collection, target)
	if err != nil {
		return 0, err
	}

	return DecileAt(collection, idx, opts...)
}

// DecileAt is Decile for the record at index.
func DecileAt[T any](collection []T, index int, opts ...Option) (int, error) {
	if len(collection) == 0 {
		return 0, ErrEmptyCollection
	}

	ordinal, err := OrdinalAt(collection, index, opts...)
	if err != nil {
		return 0, err
	}

	return decile(len(collection), ordinal), nil
}

func percentile(n, ordinal int) float64 {
	return percentScale * float64(n-ordinal+1) / float64(n)
}

// decile is ceil(percentile / 10) in integer arithmetic, so bucket edges are exact.
func decile(n, ordinal int) int {
	return (deciles*(n-ordinal+1) + n - 1) / n
}

// column holds the ranked field of every record.
type column struct {
	values []any
	opts   Options
}

func newColumn[T any](collection []T, index int, opts []Option) (*column, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(collection) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(collection))
	}

	return extract(collection, o)
}

// extract reads the field off every record and checks that all values share
// an ordering class, so comparisons during the sort cannot fail.
func extract[T any](collection []T, o Options) (*column, error) {
	values := make([]any, len(collection))

	var class record.Class

	for i, rec := range collection {
		val, err := record.Get(rec, o.Field)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		c := record.Classify(val)

		switch {
		case c == record.ClassNone:
			return nil, fmt.Errorf("record %d: field %q: %w: %T", i, o.Field, record.ErrIncomparable, val)
		case i == 0:
			class = c
		case c != class:
			return nil, fmt.Errorf("record %d: field %q: %w: %s among %s values",
				i, o.Field, record.ErrIncomparable, c, class)
		}

		values[i] = val
	}

	return &column{values: values, opts: o}, nil
}

// compare orders records i and j by value alone; negative means i ranks better.
func (c *column) compare(i, j int) int {
	// Classes were validated by extract.
	natural, _ := record.Compare(c.values[i], c.values[j])

	return c.opts.orient(natural)
}

// order returns record indexes from best to worst.
func (c *column) order() []int {
	idx := make([]int, len(c.values))
	for i := range idx {
		idx[i] = i
	}

	slices.SortFunc(idx, func(a, b int) int {
		if byValue := c.compare(a, b); byValue != 0 {
			return byValue
		}

		return c.opts.orient(cmp.Compare(a, b))
	})

	return idx
}

package rank

import (
	"fmt"
	"strings"
)

// Direction selects which end of the ordering ranks first.
type Direction string

// Sort directions.
const (
	// Descending ranks the largest value first.
	Descending Direction = "desc"
	// Ascending ranks the smallest value first.
	Ascending Direction = "asc"
)

// DefaultField is the field ranked when no WithField option is given.
const DefaultField = "value"

// ParseDirection accepts "asc" or "desc", ignoring case and surrounding space.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Ascending:
		return Ascending, nil
	case Descending:
		return Descending, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// Options configures a ranking call.
type Options struct {
	// Field names the attribute or key compared across records.
	Field string
	// Direction controls both the value order and the tie-break order.
	Direction Direction
}

// DefaultOptions ranks the "value" field in descending order.
func DefaultOptions() Options {
	return Options{Field: DefaultField, Direction: Descending}
}

// Option mutates Options.
type Option func(*Options)

// WithField sets the ranked field.
func WithField(name string) Option {
	return func(o *Options) { o.Field = name }
}

// WithDirection sets the sort direction.
func WithDirection(d Direction) Option {
	return func(o *Options) { o.Direction = d }
}

// WithOptions replaces the whole configuration.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

func buildOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.Field == "" {
		o.Field = DefaultField
	}

	if o.Direction == "" {
		o.Direction = Descending
	}

	if o.Direction != Ascending && o.Direction != Descending {
		return Options{}, fmt.Errorf("%w: %q", ErrInvalidDirection, o.Direction)
	}

	return o, nil
}

// orient flips a natural comparison result for descending order.
func (o Options) orient(c int) int {
	if o.Direction == Descending {
		return -c
	}

	return c
}

package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/google/cel-go/cel"
)

// exprVariable is the name records are bound to inside expressions.
const exprVariable = "record"

// Expression errors.
var (
	ErrInvalidExpression = errors.New("invalid expression")
	ErrNotBoolean        = errors.New("filter expression must return a boolean")
)

var (
	// celEnv is shared: a cel.Env is safe for concurrent use once built.
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func environment() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable(exprVariable, cel.DynType),
			// Decoded documents mix ints and doubles freely.
			cel.CrossTypeNumericComparisons(true),
		)
	})

	return celEnv, celEnvErr
}

func compile(source string) (cel.Program, error) {
	env, err := environment()
	if err != nil {
		return nil, fmt.Errorf("cel environment: %w", err)
	}

	ast, issues := env.Compile(source)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidExpression, source, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidExpression, source, err)
	}

	return prg, nil
}

func evaluate(prg cel.Program, rec any) (any, error) {
	fields, err := Fields(rec)
	if err != nil {
		return nil, err
	}

	out, _, err := prg.Eval(map[string]any{exprVariable: celValue(fields)})
	if err != nil {
		return nil, err
	}

	return out.Value(), nil
}

// Expression is a computed field written in CEL, e.g.
// `double(record.crimes) / double(record.population)`.
//
// JSON numbers reach expressions as doubles; Go integer fields stay integers,
// so mixed arithmetic needs explicit double()/int() conversions.
type Expression struct {
	prg    cel.Program
	name   string
	source string
}

// NewExpression compiles source into a computed field called name.
func NewExpression(name, source string) (*Expression, error) {
	prg, err := compile(source)
	if err != nil {
		return nil, err
	}

	return &Expression{name: name, source: source, prg: prg}, nil
}

// Name returns the computed field name.
func (e *Expression) Name() string { return e.name }

// Source returns the expression text.
func (e *Expression) Source() string { return e.source }

// Eval evaluates the expression against rec.
func (e *Expression) Eval(rec any) (any, error) {
	val, err := evaluate(e.prg, rec)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", e.name, err)
	}

	return val, nil
}

// Wrap returns a record that resolves the computed field on top of rec.
// Every other name is read from rec itself.
func (e *Expression) Wrap(rec any) Record {
	return &derived{expr: e, base: rec}
}

type derived struct {
	expr *Expression
	base any
}

func (d *derived) Field(name string) (any, error) {
	if name == d.expr.name {
		return d.expr.Eval(d.base)
	}

	return Get(d.base, name)
}

func (d *derived) FieldNames() []string {
	fields, err := Fields(d.base)
	if err != nil {
		return []string{d.expr.name}
	}

	names := make([]string, 0, len(fields)+1)
	for name := range fields {
		if name != d.expr.name {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return append(names, d.expr.name)
}

// Filter is a boolean CEL predicate over records, e.g. `record.region == "west"`.
type Filter struct {
	prg    cel.Program
	source string
}

// NewFilter compiles source into a record predicate.
func NewFilter(source string) (*Filter, error) {
	prg, err := compile(source)
	if err != nil {
		return nil, err
	}

	return &Filter{prg: prg, source: source}, nil
}

// Match reports whether rec satisfies the predicate.
func (f *Filter) Match(rec any) (bool, error) {
	val, err := evaluate(f.prg, rec)
	if err != nil {
		return false, fmt.Errorf("filter %q: %w", f.source, err)
	}

	ok, isBool := val.(bool)
	if !isBool {
		return false, fmt.Errorf("%w: %q returned %T", ErrNotBoolean, f.source, val)
	}

	return ok, nil
}

// Select returns the members of collection matching f, in order.
// The input slice is not modified.
func Select[T any](collection []T, f *Filter) ([]T, error) {
	out := make([]T, 0, len(collection))

	for i, rec := range collection {
		ok, err := f.Match(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		if ok {
			out = append(out, rec)
		}
	}

	return out, nil
}

// celValue normalises Go values into the native types CEL adapts.
func celValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return val.String()
		}

		return f
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = celValue(item)
		}

		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = celValue(item)
		}

		return out
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	default:
		return v
	}
}

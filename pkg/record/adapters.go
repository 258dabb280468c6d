package record

import (
	"reflect"
)

// Map is the mapping adapter.
type Map map[string]any

// Field looks name up by key.
func (m Map) Field(name string) (any, error) {
	val, ok := m[name]
	if !ok {
		return nil, notFound(name)
	}

	return val, nil
}

// FieldNames returns the keys of m.
func (m Map) FieldNames() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}

	return names
}

// reflectMap adapts maps keyed by named string types, or holding typed values.
type reflectMap struct {
	rv reflect.Value
}

func (m reflectMap) Field(name string) (any, error) {
	key := reflect.ValueOf(name).Convert(m.rv.Type().Key())

	val := m.rv.MapIndex(key)
	if !val.IsValid() {
		return nil, notFound(name)
	}

	return val.Interface(), nil
}

// Object is the attribute adapter for structs and pointers to structs.
type Object struct {
	v any
}

// NewObject wraps v for attribute access.
func NewObject(v any) Object {
	return Object{v: v}
}

// Field reads name as an attribute of the wrapped struct.
func (o Object) Field(name string) (any, error) {
	return attribute(o.v, name)
}

// Unwrap returns the wrapped value.
func (o Object) Unwrap() any {
	return o.v
}

// Model is the attribute adapter for model instances.
// Field access is identical to Object.
type Model struct {
	v any
}

// NewModel wraps v as a model instance.
func NewModel(v any) Model {
	return Model{v: v}
}

// Field reads name as an attribute of the wrapped model.
func (m Model) Field(name string) (any, error) {
	return attribute(m.v, name)
}

// Unwrap returns the wrapped value.
func (m Model) Unwrap() any {
	return m.v
}

// PrimaryKey returns the persistence identity of the model, if it has one.
func (m Model) PrimaryKey() (any, bool) {
	if id, ok := m.v.(Identified); ok {
		return id.PrimaryKey(), true
	}

	rv, err := indirect(reflect.ValueOf(m.v))
	if err != nil || rv.Kind() != reflect.Struct {
		return nil, false
	}

	return primaryKeyField(rv)
}

func isModel(rec any, rv reflect.Value) bool {
	if _, ok := rec.(Identified); ok {
		return true
	}

	_, ok := primaryKeyField(rv)

	return ok
}

package record

import (
	"reflect"
	"strings"
)

const (
	tagCalc = "calc"
	tagJSON = "json"
	tagPK   = "pk"
	tagSkip = "-"
)

var errorType = reflect.TypeFor[error]()

// attribute resolves name on a struct, first as a field and then as a
// niladic getter method.
func attribute(v any, name string) (any, error) {
	if name == "" {
		return nil, notFound(name)
	}

	rv, err := indirect(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}

	if rv.Kind() != reflect.Struct {
		return nil, notFound(name)
	}

	if val, ok := structField(rv, name); ok {
		return val, nil
	}

	return method(v, name)
}

// structField matches, in order: the calc tag name, the json tag name, the Go
// field name ignoring case.
func structField(rv reflect.Value, name string) (any, bool) {
	fields := reflect.VisibleFields(rv.Type())

	match := func(pred func(reflect.StructField) bool) (any, bool) {
		for _, f := range fields {
			if !f.IsExported() || !pred(f) {
				continue
			}

			fv, err := rv.FieldByIndexErr(f.Index)
			if err != nil || !fv.CanInterface() {
				continue
			}

			return fv.Interface(), true
		}

		return nil, false
	}

	if val, ok := match(func(f reflect.StructField) bool { return tagName(f, tagCalc) == name }); ok {
		return val, true
	}

	if val, ok := match(func(f reflect.StructField) bool { return tagName(f, tagJSON) == name }); ok {
		return val, true
	}

	return match(func(f reflect.StructField) bool {
		return !skipped(f) && strings.EqualFold(f.Name, name)
	})
}

// method calls an exported getter named like name. The getter must take no
// arguments and return either a single value or a value and an error.
func method(v any, name string) (any, error) {
	rv := reflect.ValueOf(v)
	rt := rv.Type()

	for i := range rt.NumMethod() {
		m := rt.Method(i)
		if !strings.EqualFold(m.Name, name) || m.Type.NumIn() != 1 {
			continue
		}

		switch {
		case m.Type.NumOut() == 1:
			return rv.Method(i).Call(nil)[0].Interface(), nil
		case m.Type.NumOut() == 2 && m.Type.Out(1) == errorType:
			out := rv.Method(i).Call(nil)
			if err, ok := out[1].Interface().(error); ok && err != nil {
				return nil, err
			}

			return out[0].Interface(), nil
		}
	}

	return nil, notFound(name)
}

func primaryKeyField(rv reflect.Value) (any, bool) {
	for _, f := range reflect.VisibleFields(rv.Type()) {
		if !f.IsExported() || !hasOption(f, tagPK) {
			continue
		}

		fv, err := rv.FieldByIndexErr(f.Index)
		if err != nil || !fv.CanInterface() {
			return nil, false
		}

		return fv.Interface(), true
	}

	return nil, false
}

// fieldName is the name a struct field is published under.
func fieldName(f reflect.StructField) string {
	if name := tagName(f, tagCalc); name != "" {
		return name
	}

	if name := tagName(f, tagJSON); name != "" {
		return name
	}

	return f.Name
}

func tagName(f reflect.StructField, key string) string {
	tag, ok := f.Tag.Lookup(key)
	if !ok || tag == tagSkip {
		return ""
	}

	name, _, _ := strings.Cut(tag, ",")

	return name
}

func hasOption(f reflect.StructField, option string) bool {
	tag, ok := f.Tag.Lookup(tagCalc)
	if !ok {
		return false
	}

	_, opts, _ := strings.Cut(tag, ",")

	for opt := range strings.SplitSeq(opts, ",") {
		if opt == option {
			return true
		}
	}

	return false
}

func skipped(f reflect.StructField) bool {
	return f.Tag.Get(tagCalc) == tagSkip || f.Tag.Get(tagJSON) == tagSkip
}

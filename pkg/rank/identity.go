package rank

import (
	"fmt"
	"reflect"
)

// ref identifies a value by its address.
type ref struct {
	typ  reflect.Type
	addr uintptr
	n    int
}

// identityOf returns a key such that two members of a collection share it
// only when they are the same record. Reference kinds are keyed by address;
// other comparable values stand for themselves.
func identityOf(v any) (any, bool) {
	if v == nil {
		return nil, false
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return ref{typ: rv.Type(), addr: rv.Pointer()}, true
	case reflect.Slice:
		return ref{typ: rv.Type(), addr: rv.Pointer(), n: rv.Len()}, true
	}

	if !rv.Comparable() {
		return nil, false
	}

	return v, true
}

// locate returns the index of target in collection, matched by identity.
// A target matching several members cannot be told apart from them.
func locate[T any](collection []T, target T) (int, error) {
	key, ok := identityOf(any(target))
	if !ok {
		return 0, ErrNoIdentity
	}

	found := -1

	for i, rec := range collection {
		candidate, ok := identityOf(any(rec))
		if !ok || candidate != key {
			continue
		}

		if found >= 0 {
			return 0, fmt.Errorf("%w: indexes %d and %d", ErrAmbiguousTarget, found, i)
		}

		found = i
	}

	if found < 0 {
		return 0, ErrTargetNotFound
	}

	return found, nil
}

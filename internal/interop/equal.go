package interop

import "reflect"

// StrictEqual compares two values the way `===` does: values of different
// types are unequal, comparable values compare with ==, and maps, slices and
// funcs compare by reference. NaN is unequal to itself. Structs and arrays
// whose interface fields hold uncomparable values are unequal.
func StrictEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return comparableEqual(a, b)
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	default:
		return false
	}
}

// comparableEqual is a == b for types whose == can still panic on a dynamic
// value (an interface field holding a slice, map or func).
func comparableEqual(a, b Value) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

package internal

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// EqualFunc decides whether a write (or a recompute) actually changed a value.
type EqualFunc func(a, b any) bool

// Identical compares by identity:
//   - comparable values with ==
//   - slices when they share the same backing array and length
//   - maps, pointers, channels by address
//   - funcs are never equal
//   - values of different dynamic types are never equal
func Identical(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil {
		return true
	}

	switch ta.Kind() {
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		if va.IsNil() != vb.IsNil() {
			return false
		}
		return va.Len() == vb.Len() && (va.Len() == 0 || va.Pointer() == vb.Pointer())
	case reflect.Map:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	case reflect.Func:
		return false
	}

	if !ta.Comparable() {
		return false
	}

	return safeCompare(a, b)
}

// safeCompare guards against structs holding non comparable values
// in interface fields, which make == panic at runtime.
func safeCompare(a, b any) (equal bool) {
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()

	return a == b
}

var allowUnexported = cmp.Exporter(func(reflect.Type) bool { return true })

// Structural compares values deeply, unexported fields included.
func Structural(a, b any) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	return cmp.Equal(a, b, allowUnexported)
}

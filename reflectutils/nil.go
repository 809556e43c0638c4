package reflectutils

import "reflect"

// IsNil reports whether the given value is nil, either an untyped nil interface or a typed nil
// pointer, map, slice, channel, function or interface.
func IsNil[T any](value T) bool {
	v := reflect.ValueOf(&value).Elem()
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return true
		}
		return isNilValue(v.Elem())
	default:
		return isNilValue(v)
	}
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	default:
		return false
	}
}

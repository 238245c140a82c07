package primitive

import (
	"reflect"
	"time"
)

// Allowed reports whether any of the categories permits converting src to dst.
// Enum conversions additionally require both types to share the underlying kind.
func Allowed(src, dst reflect.Type, categories CategoryEnum) bool {
	from, to := FromReflectType(src), FromReflectType(dst)
	if from == 0 || to == 0 {
		return false
	}

	matched := Categories(from, to) & categories
	if matched == CategoryNone {
		return false
	}

	if matched == CategoryEnumString {
		return src.Kind() == dst.Kind()
	}

	return true
}

// Converter returns a conversion from src values to dst values when one of
// the categories allows it.
func Converter(src, dst reflect.Type, categories CategoryEnum) (func(reflect.Value) reflect.Value, bool) {
	if !Allowed(src, dst, categories) {
		return nil, false
	}

	from, to := FromReflectType(src), FromReflectType(dst)

	switch {
	case from == KindTime:
		return func(v reflect.Value) reflect.Value {
			t, _ := v.Interface().(time.Time)
			return reflect.ValueOf(t.Unix()).Convert(dst)
		}, true

	case to == KindTime && from.IsUnsigned():
		return func(v reflect.Value) reflect.Value {
			return reflect.ValueOf(time.Unix(int64(v.Uint()), 0).UTC())
		}, true

	case to == KindTime:
		return func(v reflect.Value) reflect.Value {
			return reflect.ValueOf(time.Unix(v.Int(), 0).UTC())
		}, true

	case from == KindBool:
		return func(v reflect.Value) reflect.Value {
			n := 0
			if v.Bool() {
				n = 1
			}

			return reflect.ValueOf(n).Convert(dst)
		}, true

	case to == KindBool && from.IsUnsigned():
		return func(v reflect.Value) reflect.Value {
			return reflect.ValueOf(v.Uint() != 0)
		}, true

	case to == KindBool:
		return func(v reflect.Value) reflect.Value {
			return reflect.ValueOf(v.Int() != 0)
		}, true

	case from == KindDuration && to.IsFloat():
		return func(v reflect.Value) reflect.Value {
			return reflect.ValueOf(time.Duration(v.Int()).Seconds()).Convert(dst)
		}, true

	case to == KindDuration && from.IsFloat():
		return func(v reflect.Value) reflect.Value {
			return reflect.ValueOf(time.Duration(v.Float() * float64(time.Second)))
		}, true

	default:
		// numbers, nanoseconds and enums share the reflect conversion rules
		return func(v reflect.Value) reflect.Value {
			return v.Convert(dst)
		}, true
	}
}

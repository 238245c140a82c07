package mapper

import (
	"reflect"

	"gitlab.com/tozd/go/errors"
)

// abstractContainer picks the concrete container filling an interface
// destination: the unnamed map or slice of the source's own key and element
// types.
func (b *builder) abstractContainer(concrete reflect.Type) (reflect.Type, error) {
	if !concrete.Implements(b.key.dst) {
		return nil, errors.Errorf("%w: %s does not implement %s", ErrNoConstructor, concrete, b.key.dst)
	}

	return concrete, nil
}

// mapRoutine maps every entry of a map. Two source keys mapping to the same
// destination key panic with ErrDuplicateKey.
func (b *builder) mapRoutine() (Func, error) {
	src, dst := b.key.src, b.key.dst
	if src.Kind() != reflect.Map {
		return nil, errors.Errorf("%w: %s", ErrCategoryMismatch, b.key)
	}

	target := dst

	switch dst.Kind() {
	case reflect.Map:
	case reflect.Interface:
		concrete, err := b.abstractContainer(reflect.MapOf(src.Key(), src.Elem()))
		if err != nil {
			return nil, err
		}

		target = concrete
	default:
		return nil, errors.Errorf("%w: %s", ErrCategoryMismatch, b.key)
	}

	keys, err := b.nested(src.Key(), target.Key())
	if err != nil {
		return nil, err
	}

	values, err := b.nested(src.Elem(), target.Elem())
	if err != nil {
		return nil, err
	}

	zero := reflect.Zero(dst)

	return func(v reflect.Value) reflect.Value {
		if v.IsNil() {
			return zero
		}

		keyFn, valueFn := keys.Get(), values.Get()

		out := reflect.MakeMapWithSize(target, v.Len())
		for it := v.MapRange(); it.Next(); {
			key := keyFn(it.Key())
			if out.MapIndex(key).IsValid() {
				panic(errors.Errorf("%w: %v in %s", ErrDuplicateKey, key, target))
			}

			out.SetMapIndex(key, valueFn(it.Value()))
		}

		if target == dst {
			return out
		}

		res := reflect.New(dst).Elem()
		res.Set(out)

		return res
	}, nil
}

// sliceRoutine maps slices and arrays element by element, preserving order.
// An array destination receives the first min(len(src), len(dst)) elements.
func (b *builder) sliceRoutine() (Func, error) {
	src, dst := b.key.src, b.key.dst
	if !isSequence(src) {
		return nil, errors.Errorf("%w: %s", ErrCategoryMismatch, b.key)
	}

	target := dst

	switch dst.Kind() {
	case reflect.Slice, reflect.Array:
	case reflect.Interface:
		concrete, err := b.abstractContainer(reflect.SliceOf(src.Elem()))
		if err != nil {
			return nil, err
		}

		target = concrete
	default:
		return nil, errors.Errorf("%w: %s", ErrCategoryMismatch, b.key)
	}

	elems, err := b.nested(src.Elem(), target.Elem())
	if err != nil {
		return nil, err
	}

	nilable := src.Kind() == reflect.Slice
	zero := reflect.Zero(dst)

	if target.Kind() == reflect.Array {
		size := target.Len()

		return func(v reflect.Value) reflect.Value {
			elemFn := elems.Get()

			out := reflect.New(target).Elem()
			for i := range min(v.Len(), size) {
				out.Index(i).Set(elemFn(v.Index(i)))
			}

			return out
		}, nil
	}

	return func(v reflect.Value) reflect.Value {
		if nilable && v.IsNil() {
			return zero
		}

		elemFn := elems.Get()

		out := reflect.MakeSlice(target, v.Len(), v.Len())
		for i := range v.Len() {
			out.Index(i).Set(elemFn(v.Index(i)))
		}

		if target == dst {
			return out
		}

		res := reflect.New(dst).Elem()
		res.Set(out)

		return res
	}, nil
}

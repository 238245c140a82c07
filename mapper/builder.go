package mapper

import (
	"context"
	"reflect"

	"gitlab.com/tozd/go/errors"

	"shape-caster/primitive"
	"shape-caster/promise"
)

type promiseFunc = promise.Promise[Func]

// builder builds the routine of one pair inside a construction session.
type builder struct {
	mapper  *Mapper
	ctx     context.Context
	session *session
	key     pair
}

// nested returns the promise of the routine mapping src to dst.
func (b *builder) nested(src, dst reflect.Type) (*promiseFunc, error) {
	if src == dst {
		return promise.Resolved[Func](identity), nil
	}

	p, err := b.session.Resolve(b.ctx, pair{src, dst})
	if err != nil {
		return nil, errors.Errorf("%s: %w", b.key, err)
	}

	return p, nil
}

// construction returns a function producing a fresh addressable destination.
func (b *builder) construction(t reflect.Type) (func() reflect.Value, error) {
	ctor, ok := b.mapper.constructor(t)
	if ok {
		return func() reflect.Value {
			out := reflect.New(t).Elem()
			out.Set(ctor.Call(nil)[0])

			return out
		}, nil
	}

	if t.Kind() == reflect.Interface {
		return nil, errors.Errorf("%w: %s", ErrNoConstructor, b.key)
	}

	return func() reflect.Value {
		return reflect.New(t).Elem()
	}, nil
}

// nullableRoutine handles pairs where exactly one side is a pointer.
// A nil source maps to the destination zero value.
func (b *builder) nullableRoutine() (Func, error) {
	src, dst := b.key.src, b.key.dst

	if src.Kind() == reflect.Pointer {
		inner, err := b.nested(src.Elem(), dst)
		if err != nil {
			return nil, err
		}

		zero := reflect.Zero(dst)

		return func(v reflect.Value) reflect.Value {
			if v.IsNil() {
				return zero
			}

			return inner.Get()(v.Elem())
		}, nil
	}

	inner, err := b.nested(src, dst.Elem())
	if err != nil {
		return nil, err
	}

	elem := dst.Elem()

	return func(v reflect.Value) reflect.Value {
		out := reflect.New(elem)
		out.Elem().Set(inner.Get()(v))

		return out
	}, nil
}

// pointerRoutine maps pointers to different element types, keeping nil.
func (b *builder) pointerRoutine() (Func, error) {
	inner, err := b.nested(b.key.src.Elem(), b.key.dst.Elem())
	if err != nil {
		return nil, err
	}

	elem, zero := b.key.dst.Elem(), reflect.Zero(b.key.dst)

	return func(v reflect.Value) reflect.Value {
		if v.IsNil() {
			return zero
		}

		out := reflect.New(elem)
		out.Elem().Set(inner.Get()(v.Elem()))

		return out
	}, nil
}

// interfaceRoutine stores the source into an interface it implements.
func (b *builder) interfaceRoutine() Func {
	dst := b.key.dst

	return func(v reflect.Value) reflect.Value {
		out := reflect.New(dst).Elem()
		out.Set(v)

		return out
	}
}

func (b *builder) primitiveRoutine() (Func, error) {
	fn, ok := primitive.Converter(b.key.src, b.key.dst, b.mapper.conversions)
	if !ok {
		return nil, errors.Errorf("%w: %s", ErrNoConversion, b.key)
	}

	return fn, nil
}

package mapper

import (
	"reflect"
	"runtime"

	"gitlab.com/tozd/go/errors"

	"shape-caster/utils"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
	ErrDoublePointer        = errors.New("caster function does not support double pointers")
	ErrFallibleCaster       = errors.New("caster returning an error cannot be registered")
)

var errorType = reflect.TypeFor[error]()

// Caster is a user function converting one type into another.
type Caster struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool

	fn reflect.Value
}

// ParseCaster inspects the provided function and returns a Caster struct if it is a valid caster function.
//
// Supports interfaces:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
func ParseCaster(fn any) (Caster, error) {
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func || fnVal.IsNil() {
		return Caster{}, errors.WithStack(ErrCasterIsNotAFunction)
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return Caster{}, errors.WithStack(ErrIsNotACaster)
	}

	src := fnType.In(0)
	if src.Kind() == reflect.Pointer && src.Elem().Kind() == reflect.Pointer {
		return Caster{}, errors.WithStack(ErrDoublePointer)
	}

	dst := fnType.Out(0)
	if dst.Kind() == reflect.Pointer && dst.Elem().Kind() == reflect.Pointer {
		return Caster{}, errors.WithStack(ErrDoublePointer)
	}

	alias, name := utils.SplitFuncName(runtime.FuncForPC(fnVal.Pointer()).Name())

	caster := Caster{
		Src:          src,
		Dst:          dst,
		Name:         name,
		PackageAlias: alias,
		fn:           fnVal,
	}

	switch fnType.NumOut() {
	default:
		return Caster{}, errors.WithStack(ErrIsNotACaster)

	case 1:
		return caster, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Caster{}, errors.WithStack(ErrIsNotACaster)
		case last.Kind() == reflect.Bool:
			caster.HasBool = true
		case last.Implements(errorType):
			caster.HasErr = true
		}

		return caster, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !terr.Implements(errorType) {
			return Caster{}, errors.WithStack(ErrIsNotACaster)
		}

		caster.HasBool = true
		caster.HasErr = true

		return caster, nil
	}
}

// Func adapts the caster to a mapping routine. A false ok result maps to the
// destination zero value.
func (c Caster) Func() (Func, error) {
	if c.HasErr {
		return nil, errors.Errorf("%w: %s.%s", ErrFallibleCaster, c.PackageAlias, c.Name)
	}

	fn, zero := c.fn, reflect.Zero(c.Dst)
	if !c.HasBool {
		return func(v reflect.Value) reflect.Value {
			return fn.Call([]reflect.Value{v})[0]
		}, nil
	}

	return func(v reflect.Value) reflect.Value {
		out := fn.Call([]reflect.Value{v})
		if !out[1].Bool() {
			return zero
		}

		return out[0]
	}, nil
}

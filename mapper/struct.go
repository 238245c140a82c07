package mapper

import (
	"reflect"
	"slices"
	"strings"

	"gitlab.com/tozd/go/errors"

	"shape-caster/description"
)

// getter reads one member of a source value.
type getter struct {
	name string
	typ  reflect.Type
	get  func(reflect.Value) reflect.Value
}

// setter writes one member of an addressable destination value.
type setter struct {
	name string
	typ  reflect.Type
	set  func(out, v reflect.Value)
}

// sourceMembers lists the exported fields, promoted ones included, and the
// getters of the method set of *t, ordered by name. A field shadows a
// getter of the same name.
func sourceMembers(t reflect.Type) []getter {
	var res []getter

	seen := make(map[string]struct{})

	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || !f.IsExported() {
			continue
		}

		seen[f.Name] = struct{}{}
		res = append(res, getter{name: f.Name, typ: f.Type, get: fieldGetter(f)})
	}

	ptr := reflect.PointerTo(t)
	for i := range ptr.NumMethod() {
		m := ptr.Method(i)
		if !description.IsGetter(m) {
			continue
		}

		if _, shadowed := seen[m.Name]; shadowed {
			continue
		}

		res = append(res, getter{name: m.Name, typ: m.Type.Out(0), get: methodGetter(t, m)})
	}

	slices.SortFunc(res, func(a, b getter) int {
		return strings.Compare(a.name, b.name)
	})

	return res
}

// methodGetter calls a value receiver getter directly. A pointer receiver
// getter gets the address of the source, or of a copy when the source is not
// addressable.
func methodGetter(t reflect.Type, m reflect.Method) func(reflect.Value) reflect.Value {
	if vm, ok := t.MethodByName(m.Name); ok {
		fn := vm.Func

		return func(v reflect.Value) reflect.Value {
			return fn.Call([]reflect.Value{v})[0]
		}
	}

	fn := m.Func

	return func(v reflect.Value) reflect.Value {
		if !v.CanAddr() {
			tmp := reflect.New(t)
			tmp.Elem().Set(v)
			v = tmp.Elem()
		}

		return fn.Call([]reflect.Value{v.Addr()})[0]
	}
}

func fieldGetter(f reflect.StructField) func(reflect.Value) reflect.Value {
	index := f.Index
	if len(index) == 1 {
		i := index[0]

		return func(v reflect.Value) reflect.Value {
			return v.Field(i)
		}
	}

	zero := reflect.Zero(f.Type)

	// a field promoted through a nil embedded pointer reads as zero
	return func(v reflect.Value) reflect.Value {
		field, err := v.FieldByIndexErr(index)
		if err != nil {
			return zero
		}

		return field
	}
}

// destinationMembers lists the exported fields of t, promoted ones included,
// and the SetName methods of *t. A field shadows a setter of the same name.
func destinationMembers(t reflect.Type) map[string]setter {
	res := make(map[string]setter)

	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || !f.IsExported() {
			continue
		}

		res[f.Name] = setter{name: f.Name, typ: f.Type, set: fieldSetter(f.Index)}
	}

	ptr := reflect.PointerTo(t)
	for i := range ptr.NumMethod() {
		m := ptr.Method(i)

		if !isSetter(m) {
			continue
		}

		name := strings.TrimPrefix(m.Name, "Set")

		if _, shadowed := res[name]; shadowed {
			continue
		}

		fn := m.Func
		res[name] = setter{
			name: name,
			typ:  m.Type.In(1),
			set: func(out, v reflect.Value) {
				fn.Call([]reflect.Value{out.Addr(), v})
			},
		}
	}

	return res
}

// isSetter reports whether m, taken from the method set of a pointer type,
// is SetName(v) for a non-empty Name.
func isSetter(m reflect.Method) bool {
	name, ok := strings.CutPrefix(m.Name, "Set")
	return ok && name != "" && m.Type.NumIn() == 2 && m.Type.NumOut() == 0
}

// fieldSetter allocates nil embedded pointers on the way to the field.
func fieldSetter(index []int) func(out, v reflect.Value) {
	if len(index) == 1 {
		i := index[0]

		return func(out, v reflect.Value) {
			out.Field(i).Set(v)
		}
	}

	return func(out, v reflect.Value) {
		for _, i := range index[:len(index)-1] {
			out = out.Field(i)

			if out.Kind() == reflect.Pointer {
				if out.IsNil() {
					out.Set(reflect.New(out.Type().Elem()))
				}

				out = out.Elem()
			}
		}

		out.Field(index[len(index)-1]).Set(v)
	}
}

// member is one precomputed copy step of an object routine.
type member struct {
	get    func(reflect.Value) reflect.Value
	set    func(out, v reflect.Value)
	mapper *promiseFunc
}

// structRoutine maps a struct into a struct, or into an interface built by a
// registered constructor. Source members without a destination counterpart
// are dropped.
func (b *builder) structRoutine() (Func, error) {
	dst := b.key.dst

	construct, err := b.construction(dst)
	if err != nil {
		return nil, err
	}

	target := dst
	if dst.Kind() == reflect.Interface {
		// the dynamic type of a constructed value decides the members
		sample := construct().Elem()
		if sample.Kind() != reflect.Pointer || sample.Elem().Kind() != reflect.Struct {
			return nil, errors.Errorf("%w: constructor of %s returns %s", ErrNoConstructor, dst, sample.Type())
		}

		target = sample.Type().Elem()
	}

	members, err := b.members(target)
	if err != nil {
		return nil, err
	}

	if target != dst {
		return func(v reflect.Value) reflect.Value {
			out := construct()
			copyMembers(members, v, out.Elem().Elem())

			return out
		}, nil
	}

	return func(v reflect.Value) reflect.Value {
		out := construct()
		copyMembers(members, v, out)

		return out
	}, nil
}

// members pairs source getters with destination setters by name.
func (b *builder) members(target reflect.Type) ([]member, error) {
	setters := destinationMembers(target)

	var res []member

	for _, g := range sourceMembers(b.key.src) {
		s, ok := setters[g.name]
		if !ok {
			continue
		}

		nested, err := b.nested(g.typ, s.typ)
		if err != nil {
			return nil, errors.Errorf("member %s: %w", g.name, err)
		}

		res = append(res, member{get: g.get, set: s.set, mapper: nested})
	}

	return res, nil
}

func copyMembers(members []member, src, out reflect.Value) {
	for _, m := range members {
		m.set(out, m.mapper.Get()(m.get(src)))
	}
}

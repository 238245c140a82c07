// Package describe builds canonical descriptions of Go types.
//
// Every (type, filter) pair has exactly one canonical raw description for the
// process lifetime. Construction goes through a promise registry: the entry
// for a type is registered before its members are visited, so a member that
// leads back to a type under construction receives the in-flight promise.
package describe

import (
	"context"
	"reflect"
	"runtime"
	"slices"

	"gitlab.com/tozd/go/errors"

	"shape-caster/description"
	"shape-caster/internal/clog"
	"shape-caster/options"
	"shape-caster/promise"
)

var ErrInvalidFilter = errors.New("invalid description filter")

var registry = promise.NewRegistry(construct)

// Build returns the canonical raw description of t under filter. Pointer
// types are described by their element type. It panics with
// ErrInvalidFilter if the filter selects nothing.
func Build(t reflect.Type, filter options.Filter) *description.TypeDescription {
	return BuildContext(context.Background(), t, filter)
}

// BuildContext is Build logging through the logger carried by ctx.
func BuildContext(ctx context.Context, t reflect.Type, filter options.Filter) *description.TypeDescription {
	if err := filter.Validate(); err != nil {
		panic(errors.Errorf("%w: %v", ErrInvalidFilter, err))
	}

	key := keyOf(t, filter)
	if d, ok := registry.Lookup(key); ok {
		return d
	}

	ctx = clog.WithAttrs(ctx, "request", key.String())

	d, err := registry.Get(ctx, key)
	if err != nil {
		// construct never fails; a failure here is a broken invariant
		panic(err)
	}

	return d
}

func keyOf(t reflect.Type, filter options.Filter) description.Key {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return description.Key{Type: t, Filter: filter}
}

type session = promise.Session[description.Key, *description.TypeDescription]

func construct(ctx context.Context, s *session, key description.Key) (*description.TypeDescription, error) {
	d := description.New(key.Type, key.Filter)
	t := key.Type

	resolve := func(of reflect.Type) (*promise.Promise[*description.TypeDescription], error) {
		return s.Resolve(ctx, keyOf(of, key.Filter))
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		elem, err := resolve(t.Elem())
		if err != nil {
			return nil, err
		}

		d.SetElem(elem)

	case reflect.Map:
		k, err := resolve(t.Key())
		if err != nil {
			return nil, err
		}

		elem, err := resolve(t.Elem())
		if err != nil {
			return nil, err
		}

		d.SetKey(k)
		d.SetElem(elem)
	}

	var candidates []*description.Member

	if key.Filter.Members&options.MemberFields != 0 && t.Kind() == reflect.Struct {
		candidates = append(candidates, fieldMembers(t)...)
	}

	if key.Filter.Members&options.MemberProperties != 0 && t.Kind() != reflect.Interface {
		candidates = append(candidates, propertyMembers(t)...)
	}

	for _, m := range candidates {
		if !key.Filter.Includes(m.Kind, m.Visibility) {
			continue
		}

		// a getter named like a field is shadowed by the field
		if _, dup := d.Member(m.Name); dup {
			continue
		}

		p, err := resolve(m.Type)
		if err != nil {
			return nil, err
		}

		described := description.NewMember(m.Name, p)
		described.Kind, described.Visibility = m.Kind, m.Visibility
		described.Type, described.Optional = m.Type, m.Type.Kind() == reflect.Pointer
		described.Writable, described.Index = m.Writable, m.Index

		d.AddMember(described)
	}

	clog.Ctx(ctx).Debug("description built",
		"type", key.Type.String(), "filter", key.Filter.String(), "members", d.Len())

	return d, nil
}

// fieldMembers lists the visible fields of a struct. Embedded fields are not
// members themselves; their exported fields are promoted as protected ones.
func fieldMembers(t reflect.Type) []*description.Member {
	var res []*description.Member

	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous {
			continue
		}

		visibility := options.VisibilityPublic

		switch {
		case len(f.Index) > 1 && !f.IsExported():
			continue
		case len(f.Index) > 1:
			visibility = options.VisibilityProtected
		case !f.IsExported():
			visibility = options.VisibilityPrivate
		}

		res = append(res, &description.Member{
			Name:       f.Name,
			Kind:       options.MemberFields,
			Visibility: visibility,
			Type:       f.Type,
			Writable:   f.IsExported(),
			Index:      slices.Clone(f.Index),
		})
	}

	return res
}

// propertyMembers lists the getters of *t: exported methods without arguments
// returning exactly one value.
func propertyMembers(t reflect.Type) []*description.Member {
	var res []*description.Member

	ptr := reflect.PointerTo(t)
	for i := range ptr.NumMethod() {
		m := ptr.Method(i)
		if !description.IsGetter(m) {
			continue
		}

		res = append(res, &description.Member{
			Name:       m.Name,
			Kind:       options.MemberProperties,
			Visibility: methodVisibility(t, m),
			Type:       m.Type.Out(0),
			Writable:   hasSetter(ptr, m.Name, m.Type.Out(0)),
		})
	}

	return res
}

func hasSetter(ptr reflect.Type, name string, value reflect.Type) bool {
	setter, ok := ptr.MethodByName("Set" + name)
	if !ok {
		return false
	}

	return setter.Type.NumIn() == 2 && setter.Type.NumOut() == 0 && setter.Type.In(1) == value
}

// methodVisibility tells declared methods from methods promoted through an
// embedded field. Promoted methods are compiler generated wrappers.
func methodVisibility(t reflect.Type, m reflect.Method) options.VisibilityEnum {
	if !embedsMethod(t, m.Name) {
		return options.VisibilityPublic
	}

	fn := m.Func
	if vm, ok := t.MethodByName(m.Name); ok {
		fn = vm.Func
	}

	if f := runtime.FuncForPC(fn.Pointer()); f != nil {
		if file, _ := f.FileLine(f.Entry()); file != "<autogenerated>" {
			return options.VisibilityPublic
		}
	}

	return options.VisibilityProtected
}

func embedsMethod(t reflect.Type, name string) bool {
	if t.Kind() != reflect.Struct {
		return false
	}

	for _, f := range reflect.VisibleFields(t) {
		if !f.Anonymous {
			continue
		}

		ft := f.Type
		if ft.Kind() != reflect.Pointer && ft.Kind() != reflect.Interface {
			ft = reflect.PointerTo(ft)
		}

		if _, ok := ft.MethodByName(name); ok {
			return true
		}
	}

	return false
}

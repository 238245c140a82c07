package mapper

import (
	"reflect"
	"unsafe"

	"gitlab.com/tozd/go/errors"

	"shape-caster/description"
	"shape-caster/utils"
)

// slot is an unexported backing field of a record getter.
type slot struct {
	getter string
	index  int
	typ    reflect.Type
}

// IsRecord reports whether t is a record: a struct implementing Record whose
// state is only observable through getters. All of the following must hold:
//   - no exported and no embedded fields;
//   - no SetName methods;
//   - every getter other than Record has exactly one unexported field named
//     like the getter with a lower-case first letter and of the getter's
//     result type;
//   - every unexported field backs exactly one getter.
func IsRecord(t reflect.Type) bool {
	_, ok := recordSlots(t)
	return ok
}

func recordSlots(t reflect.Type) ([]slot, bool) {
	if t.Kind() != reflect.Struct || !reflect.PointerTo(t).Implements(recordType) {
		return nil, false
	}

	fields := make(map[string]reflect.StructField, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if f.IsExported() || f.Anonymous {
			return nil, false
		}

		fields[f.Name] = f
	}

	var slots []slot

	ptr := reflect.PointerTo(t)
	for i := range ptr.NumMethod() {
		m := ptr.Method(i)
		if isSetter(m) {
			return nil, false
		}

		if !description.IsGetter(m) {
			continue
		}

		f, ok := fields[utils.LowerFirst(m.Name)]
		if !ok || f.Type != m.Type.Out(0) {
			return nil, false
		}

		slots = append(slots, slot{getter: m.Name, index: f.Index[0], typ: f.Type})
	}

	// names are unique, so equal counts make the getter to field mapping a bijection
	if len(slots) != len(fields) {
		return nil, false
	}

	return slots, true
}

// recordRoutine builds the record from its zero value and writes every
// matched slot directly.
func (b *builder) recordRoutine() (Func, error) {
	dst := b.key.dst

	slots, ok := recordSlots(dst)
	if !ok {
		return nil, errors.Errorf("%w: %s is not a record", ErrNoConversion, dst)
	}

	construct, err := b.construction(dst)
	if err != nil {
		return nil, err
	}

	getters := make(map[string]getter)
	for _, g := range sourceMembers(b.key.src) {
		getters[g.name] = g
	}

	var members []member

	for _, s := range slots {
		g, ok := getters[s.getter]
		if !ok {
			continue
		}

		nested, err := b.nested(g.typ, s.typ)
		if err != nil {
			return nil, errors.Errorf("member %s: %w", g.name, err)
		}

		members = append(members, member{get: g.get, set: slotSetter(s), mapper: nested})
	}

	return func(v reflect.Value) reflect.Value {
		out := construct()
		copyMembers(members, v, out)

		return out
	}, nil
}

func slotSetter(s slot) func(out, v reflect.Value) {
	index, typ := s.index, s.typ

	return func(out, v reflect.Value) {
		field := out.Field(index)
		reflect.NewAt(typ, unsafe.Pointer(field.UnsafeAddr())).Elem().Set(v)
	}
}

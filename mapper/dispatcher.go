package mapper

import (
	"reflect"

	"shape-caster/primitive"
)

//go:generate go tool stringer -type=DispatcherEnum -output=dispatcher_string.go

type DispatcherEnum int

const (
	DispatcherUnknown   DispatcherEnum = iota
	DispatcherIdentity                 // same type
	DispatcherMap                      // map source, map or abstract destination
	DispatcherSlice                    // slice or array source, slice, array or abstract destination
	DispatcherInterface                // destination interface implemented by the source
	DispatcherNullable                 // exactly one side is a pointer
	DispatcherPointer                  // both sides are pointers to different types
	DispatcherRecord                   // destination is a Record
	DispatcherPrimitive                // scalars convertible by an allowed category
	DispatcherStruct                   // general object

	// DispatcherTotal is a constant that represents the total number of kinds defined
	DispatcherTotal = int(iota)
)

// Record marks a destination type as an immutable record. The mapper fills a
// record by writing its unexported backing fields directly, so the type needs
// no setters. A marked type is only treated as a record when its shape
// matches, see IsRecord.
type Record interface {
	Record()
}

var recordType = reflect.TypeFor[Record]()

// Dispatch classifies a type pair. The first matching class wins, in the order
// the DispatcherEnum constants are declared. A map or sequence on one side
// with an incompatible other side is still classified as DispatcherMap or
// DispatcherSlice so that building reports the category mismatch.
func Dispatch(src, dst reflect.Type, conversions primitive.CategoryEnum) DispatcherEnum {
	switch {
	case src == dst:
		return DispatcherIdentity

	case src.Kind() == reflect.Map && (dst.Kind() == reflect.Map || dst.Kind() == reflect.Interface):
		return DispatcherMap

	case isSequence(src) && (isSequence(dst) || dst.Kind() == reflect.Interface):
		return DispatcherSlice

	case dst.Kind() == reflect.Interface && src.Implements(dst):
		return DispatcherInterface

	case (src.Kind() == reflect.Pointer) != (dst.Kind() == reflect.Pointer):
		return DispatcherNullable

	case src.Kind() == reflect.Pointer:
		return DispatcherPointer

	case src.Kind() == reflect.Map || dst.Kind() == reflect.Map:
		return DispatcherMap

	case isSequence(src) || isSequence(dst):
		return DispatcherSlice

	case src.Kind() == reflect.Struct && IsRecord(dst):
		return DispatcherRecord

	case primitive.Allowed(src, dst, conversions):
		return DispatcherPrimitive

	case src.Kind() == reflect.Struct && (dst.Kind() == reflect.Struct || dst.Kind() == reflect.Interface):
		return DispatcherStruct
	}

	return DispatcherUnknown
}

func isSequence(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

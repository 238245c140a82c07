package primitive

import (
	"reflect"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum is the scalar class of a type as seen by primitive conversions.
// The zero value means the type is not a scalar.
type KindEnum int

const (
	_ KindEnum = iota

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // named type with an int or string underlying type

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

type traits uint8

const (
	traitInteger traits = 1 << iota
	traitUnsigned
	traitFloat
)

var kindTraits = [KindTotal]traits{
	KindInt:     traitInteger,
	KindInt8:    traitInteger,
	KindInt16:   traitInteger,
	KindInt32:   traitInteger,
	KindInt64:   traitInteger,
	KindUint:    traitInteger | traitUnsigned,
	KindUint8:   traitInteger | traitUnsigned,
	KindUint16:  traitInteger | traitUnsigned,
	KindUint32:  traitInteger | traitUnsigned,
	KindUint64:  traitInteger | traitUnsigned,
	KindFloat32: traitFloat,
	KindFloat64: traitFloat,
}

func (k KindEnum) has(t traits) bool {
	return k > 0 && int(k) < KindTotal && kindTraits[k]&t != 0
}

func (k KindEnum) IsNumber() bool   { return k.has(traitInteger | traitFloat) }
func (k KindEnum) IsInteger() bool  { return k.has(traitInteger) }
func (k KindEnum) IsFloat() bool    { return k.has(traitFloat) }
func (k KindEnum) IsUnsigned() bool { return k.has(traitUnsigned) }

var builtinKinds = map[reflect.Type]KindEnum{
	reflect.TypeFor[int]():           KindInt,
	reflect.TypeFor[int8]():          KindInt8,
	reflect.TypeFor[int16]():         KindInt16,
	reflect.TypeFor[int32]():         KindInt32,
	reflect.TypeFor[int64]():         KindInt64,
	reflect.TypeFor[uint]():          KindUint,
	reflect.TypeFor[uint8]():         KindUint8,
	reflect.TypeFor[uint16]():        KindUint16,
	reflect.TypeFor[uint32]():        KindUint32,
	reflect.TypeFor[uint64]():        KindUint64,
	reflect.TypeFor[float32]():       KindFloat32,
	reflect.TypeFor[float64]():       KindFloat64,
	reflect.TypeFor[bool]():          KindBool,
	reflect.TypeFor[string]():        KindString,
	reflect.TypeFor[time.Time]():     KindTime,
	reflect.TypeFor[time.Duration](): KindDuration,
}

// FromReflectType classifies t. Builtin scalars, time.Time and time.Duration
// map to their own kind; other named types map to KindPrimitiveEnum when
// their underlying type is int or string, and to zero otherwise.
func FromReflectType(t reflect.Type) KindEnum {
	if t == nil {
		return 0
	}

	if k, ok := builtinKinds[t]; ok {
		return k
	}

	switch t.Kind() {
	case reflect.Int, reflect.String:
		return KindPrimitiveEnum
	default:
		return 0
	}
}

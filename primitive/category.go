package primitive

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

var ErrUnknownCategory = errors.New("unknown conversion category")

type CategoryEnum int

type ConversionPair struct {
	From, To KindEnum
}

// Every category is infallible: a conversion allowed by a category always
// produces a value, possibly with precision loss for CategoryUnsafeNumber.
const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float with precision loss
	CategoryNumericBool                           // int <-> bool: any non-zero number is true
	CategoryTimestamp                             // int(Unix seconds) <-> time.Time
	CategoryNanoseconds                           // int(nanoseconds) <-> time.Duration
	CategorySeconds                               // float(seconds) <-> time.Duration
	CategoryEnumString                            // string/int <-> named type of the same underlying kind

	CategoryAll  = (1 << iota) - 1 // all categories combined
	CategoryNone = 0               // no categories selected
)

var categoryNames = []struct {
	category CategoryEnum
	name     string
}{
	{CategorySafeNumber, "safe_number"},
	{CategoryUnsafeNumber, "unsafe_number"},
	{CategoryNumericBool, "numeric_bool"},
	{CategoryTimestamp, "timestamp"},
	{CategoryNanoseconds, "nanoseconds"},
	{CategorySeconds, "seconds"},
	{CategoryEnumString, "enum_string"},
}

// String renders the set as '|'-joined names accepted by ParseCategory.
func (c CategoryEnum) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryAll:
		return "all"
	}

	var parts []string

	for _, item := range categoryNames {
		if c&item.category != 0 {
			parts = append(parts, item.name)
		}
	}

	return strings.Join(parts, "|")
}

// ParseCategory accepts a single name, "all", "none" or a '|'-joined list.
func ParseCategory(name string) (CategoryEnum, error) {
	var res CategoryEnum

	for _, part := range strings.Split(name, "|") {
		part = strings.ToLower(strings.TrimSpace(part))

		switch part {
		case "all":
			res |= CategoryAll
			continue
		case "none", "":
			continue
		}

		found := false

		for _, item := range categoryNames {
			if item.name == part {
				res |= item.category
				found = true

				break
			}
		}

		if !found {
			return CategoryNone, errors.Errorf("%w: %q", ErrUnknownCategory, part)
		}
	}

	return res, nil
}

var conversionPairs map[CategoryEnum]map[ConversionPair]struct{}

func init() {
	conversionPairs = make(map[CategoryEnum]map[ConversionPair]struct{})

	conversionPairs[CategorySafeNumber] = safeNumberConversionPairs()

	// CategoryUnsafeNumber: unsafe number conversions
	conversionPairs[CategoryUnsafeNumber] = map[ConversionPair]struct{}{}
	for fromKind := KindEnum(0); int(fromKind) < KindTotal; fromKind++ {
		if !fromKind.IsNumber() {
			continue
		}

		for toKind := KindEnum(0); int(toKind) < KindTotal; toKind++ {
			if !toKind.IsNumber() {
				continue
			}

			pair := ConversionPair{fromKind, toKind}
			if _, ok := conversionPairs[CategorySafeNumber][pair]; ok {
				continue
			}

			conversionPairs[CategoryUnsafeNumber][pair] = struct{}{}
		}
	}

	// CategoryNumericBool: int <-> bool conversions
	conversionPairs[CategoryNumericBool] = map[ConversionPair]struct{}{}
	for fromKind := KindEnum(0); int(fromKind) < KindTotal; fromKind++ {
		if !fromKind.IsInteger() {
			continue
		}

		conversionPairs[CategoryNumericBool][ConversionPair{fromKind, KindBool}] = struct{}{}
		conversionPairs[CategoryNumericBool][ConversionPair{KindBool, fromKind}] = struct{}{}
	}

	// CategoryTimestamp: any int -> time.Time, time.Time -> signed int
	conversionPairs[CategoryTimestamp] = map[ConversionPair]struct{}{}
	for numberKind := KindEnum(0); int(numberKind) < KindTotal; numberKind++ {
		if !numberKind.IsInteger() {
			continue
		}

		conversionPairs[CategoryTimestamp][ConversionPair{numberKind, KindTime}] = struct{}{}

		if numberKind == KindInt64 || numberKind == KindInt {
			conversionPairs[CategoryTimestamp][ConversionPair{KindTime, numberKind}] = struct{}{}
		}
	}

	// CategoryNanoseconds: int(nanoseconds) <-> time.Duration conversions
	conversionPairs[CategoryNanoseconds] = map[ConversionPair]struct{}{}
	for numberKind := KindEnum(0); int(numberKind) < KindTotal; numberKind++ {
		if !numberKind.IsInteger() || numberKind == KindUint64 {
			continue
		}

		conversionPairs[CategoryNanoseconds][ConversionPair{numberKind, KindDuration}] = struct{}{}
		conversionPairs[CategoryNanoseconds][ConversionPair{KindDuration, numberKind}] = struct{}{}
	}

	// CategorySeconds: float(seconds) <-> time.Duration conversions
	conversionPairs[CategorySeconds] = map[ConversionPair]struct{}{
		{KindFloat32, KindDuration}: {},
		{KindFloat64, KindDuration}: {},
		{KindDuration, KindFloat32}: {},
		{KindDuration, KindFloat64}: {},
	}

	// CategoryEnumString: string <-> enum conversions
	conversionPairs[CategoryEnumString] = map[ConversionPair]struct{}{
		{KindString, KindPrimitiveEnum}:        {},
		{KindPrimitiveEnum, KindString}:        {},
		{KindPrimitiveEnum, KindPrimitiveEnum}: {},
		{KindInt, KindPrimitiveEnum}:           {},
		{KindPrimitiveEnum, KindInt}:           {},
	}
}

// Categories reports which categories allow the kind pair.
func Categories(from, to KindEnum) CategoryEnum {
	var res CategoryEnum

	pair := ConversionPair{from, to}
	for category, pairs := range conversionPairs {
		if _, ok := pairs[pair]; ok {
			res |= category
		}
	}

	return res
}

func safeNumberConversionPairs() map[ConversionPair]struct{} {
	return map[ConversionPair]struct{}{
		{KindInt, KindInt}:   {}, // int can be any wide from 32 upto 64
		{KindInt, KindInt64}: {},

		{KindInt8, KindInt}:     {}, // int8 can be safely converted to any signed int
		{KindInt8, KindInt8}:    {},
		{KindInt8, KindInt16}:   {},
		{KindInt8, KindInt32}:   {},
		{KindInt8, KindInt64}:   {},
		{KindInt8, KindFloat32}: {},
		{KindInt8, KindFloat64}: {},

		{KindInt16, KindInt}:     {},
		{KindInt16, KindInt16}:   {}, // int16 omitting narrowing to int8
		{KindInt16, KindInt32}:   {},
		{KindInt16, KindInt64}:   {},
		{KindInt16, KindFloat32}: {},
		{KindInt16, KindFloat64}: {},

		{KindInt32, KindInt}:     {},
		{KindInt32, KindInt32}:   {}, // int32 omitting narrowing to int8/16
		{KindInt32, KindInt64}:   {},
		{KindInt32, KindFloat64}: {}, // int32 is wider than float32 mantissa

		{KindInt64, KindInt64}: {}, // int64 is the widest signed integer type

		{KindUint, KindUint}:   {}, // uint can be any wide from 32 upto 64
		{KindUint, KindUint64}: {},

		{KindUint8, KindUint}:    {}, // uint8 can be safely converted to any unsigned int
		{KindUint8, KindUint8}:   {},
		{KindUint8, KindUint16}:  {},
		{KindUint8, KindUint32}:  {},
		{KindUint8, KindUint64}:  {},
		{KindUint8, KindInt}:     {}, // also uint8 can be converted to any wider signed int
		{KindUint8, KindInt16}:   {},
		{KindUint8, KindInt32}:   {},
		{KindUint8, KindInt64}:   {},
		{KindUint8, KindFloat32}: {},
		{KindUint8, KindFloat64}: {},

		{KindUint16, KindUint}:    {},
		{KindUint16, KindUint16}:  {}, // uint16 omitting narrowing to uint8
		{KindUint16, KindUint32}:  {},
		{KindUint16, KindUint64}:  {},
		{KindUint16, KindInt}:     {}, // also uint16 can be converted to any wider signed int
		{KindUint16, KindInt32}:   {},
		{KindUint16, KindInt64}:   {},
		{KindUint16, KindFloat32}: {},
		{KindUint16, KindFloat64}: {},

		{KindUint32, KindUint32}:  {},
		{KindUint32, KindUint64}:  {}, // uint32 omitting narrowing to uint8/16
		{KindUint32, KindInt64}:   {}, // also only int64 is wide enough to hold uint32
		{KindUint32, KindFloat64}: {}, // uint32 is wider than float32 mantissa

		{KindUint64, KindUint64}: {}, // uint64 is the widest unsigned integer type

		{KindFloat32, KindFloat32}: {},
		{KindFloat32, KindFloat64}: {},

		{KindFloat64, KindFloat64}: {},
	}
}

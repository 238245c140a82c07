package primitive_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shape-caster/primitive"
)

type status int

type color string

func ExampleCategoryEnum() {
	fmt.Println(primitive.CategorySafeNumber)
	fmt.Println(primitive.CategorySafeNumber | primitive.CategoryEnumString)
	fmt.Println(primitive.CategoryAll)
	fmt.Println(primitive.CategoryNone)

	c, err := primitive.ParseCategory("numeric_bool|seconds")
	fmt.Println(c, err)

	// Output:
	// safe_number
	// safe_number|enum_string
	// all
	// none
	// numeric_bool|seconds <nil>
}

func TestParseCategory_Unknown(t *testing.T) {
	t.Parallel()

	_, err := primitive.ParseCategory("safe_number|textual")
	require.ErrorIs(t, err, primitive.ErrUnknownCategory)
	assert.Contains(t, err.Error(), "textual")
}

func TestAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		src, dst   reflect.Type
		categories primitive.CategoryEnum
		want       bool
	}{
		{"widening", reflect.TypeFor[int32](), reflect.TypeFor[int64](), primitive.CategorySafeNumber, true},
		{"narrowing is unsafe", reflect.TypeFor[int64](), reflect.TypeFor[int8](), primitive.CategorySafeNumber, false},
		{"narrowing allowed", reflect.TypeFor[int64](), reflect.TypeFor[int8](), primitive.CategoryUnsafeNumber, true},
		{"enum from int", reflect.TypeFor[int](), reflect.TypeFor[status](), primitive.CategoryEnumString, true},
		{"enum kinds differ", reflect.TypeFor[status](), reflect.TypeFor[color](), primitive.CategoryEnumString, false},
		{"enum to string", reflect.TypeFor[color](), reflect.TypeFor[string](), primitive.CategoryEnumString, true},
		{"not a scalar", reflect.TypeFor[struct{}](), reflect.TypeFor[int](), primitive.CategoryAll, false},
		{"none", reflect.TypeFor[int](), reflect.TypeFor[int64](), primitive.CategoryNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, primitive.Allowed(tt.src, tt.dst, tt.categories))
		})
	}
}

func convert[S, D any](t *testing.T, v S, categories primitive.CategoryEnum) D {
	t.Helper()

	fn, ok := primitive.Converter(reflect.TypeFor[S](), reflect.TypeFor[D](), categories)
	require.True(t, ok)

	out, ok := fn(reflect.ValueOf(v)).Interface().(D)
	require.True(t, ok)

	return out
}

func TestConverter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(42), convert[int32, int64](t, 42, primitive.CategorySafeNumber))
	assert.Equal(t, float64(3), convert[uint8, float64](t, 3, primitive.CategorySafeNumber))
	assert.Equal(t, int8(7), convert[float64, int8](t, 7.9, primitive.CategoryUnsafeNumber))

	assert.True(t, convert[int, bool](t, -3, primitive.CategoryNumericBool))
	assert.False(t, convert[uint16, bool](t, 0, primitive.CategoryNumericBool))
	assert.Equal(t, uint8(1), convert[bool, uint8](t, true, primitive.CategoryNumericBool))

	ts := convert[int64, time.Time](t, 1700000000, primitive.CategoryTimestamp)
	assert.Equal(t, int64(1700000000), ts.Unix())
	assert.Equal(t, int64(1700000000), convert[time.Time, int64](t, ts, primitive.CategoryTimestamp))

	assert.Equal(t, 2*time.Second, convert[int64, time.Duration](t, int64(2*time.Second), primitive.CategoryNanoseconds))
	assert.Equal(t, 1500*time.Millisecond, convert[float64, time.Duration](t, 1.5, primitive.CategorySeconds))
	assert.InDelta(t, 0.25, convert[time.Duration, float32](t, 250*time.Millisecond, primitive.CategorySeconds), 1e-6)

	assert.Equal(t, status(2), convert[int, status](t, 2, primitive.CategoryEnumString))
	assert.Equal(t, "red", convert[color, string](t, "red", primitive.CategoryEnumString))
}

func TestConverter_Disallowed(t *testing.T) {
	t.Parallel()

	_, ok := primitive.Converter(reflect.TypeFor[string](), reflect.TypeFor[int](), primitive.CategoryAll)
	assert.False(t, ok)

	_, ok = primitive.Converter(reflect.TypeFor[time.Time](), reflect.TypeFor[uint64](), primitive.CategoryAll)
	assert.False(t, ok)
}

package primitive_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shape-caster/internal/fixture/store"
	"shape-caster/primitive"
)

func ExampleFromReflectType() {
	type Level int
	type Flag bool

	fmt.Println(primitive.FromReflectType(reflect.TypeFor[int]()))
	fmt.Println(primitive.FromReflectType(reflect.TypeFor[store.OrderStatus]()))
	fmt.Println(primitive.FromReflectType(reflect.TypeFor[Level]()))
	fmt.Println(primitive.FromReflectType(reflect.TypeFor[time.Duration]()))
	fmt.Println(primitive.FromReflectType(reflect.TypeFor[time.Time]()))
	fmt.Println(primitive.FromReflectType(reflect.TypeFor[Flag]()))
	fmt.Println(primitive.FromReflectType(reflect.TypeFor[store.Money]()))
	fmt.Println(primitive.FromReflectType(nil))

	// Output:
	// KindInt
	// KindPrimitiveEnum
	// KindPrimitiveEnum
	// KindDuration
	// KindTime
	// KindEnum(0)
	// KindEnum(0)
	// KindEnum(0)
}

func TestKindTraits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind                               primitive.KindEnum
		number, integer, float, isUnsigned bool
	}{
		{primitive.KindInt, true, true, false, false},
		{primitive.KindUint16, true, true, false, true},
		{primitive.KindFloat32, true, false, true, false},
		{primitive.KindBool, false, false, false, false},
		{primitive.KindDuration, false, false, false, false},
		{primitive.KindPrimitiveEnum, false, false, false, false},
		{primitive.KindEnum(0), false, false, false, false},
		{primitive.KindEnum(primitive.KindTotal), false, false, false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.number, tt.kind.IsNumber(), tt.kind.String())
		assert.Equal(t, tt.integer, tt.kind.IsInteger(), tt.kind.String())
		assert.Equal(t, tt.float, tt.kind.IsFloat(), tt.kind.String())
		assert.Equal(t, tt.isUnsigned, tt.kind.IsUnsigned(), tt.kind.String())
	}
}

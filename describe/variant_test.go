package describe_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"shape-caster/describe"
	"shape-caster/description"
	"shape-caster/internal/fixture/store"
	"shape-caster/internal/fixture/warehouse"
	"shape-caster/options"
)

func TestBuiltinVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		variant *describe.Variant
		members options.MemberEnum
		visible options.VisibilityEnum
		caches  bool
	}{
		{describe.FieldsPublicProtected, options.MemberFields, options.VisibilityPublic | options.VisibilityProtected, false},
		{describe.FieldsProtectedPrivate, options.MemberFields, options.VisibilityProtected | options.VisibilityPrivate, true},
		{describe.PropertiesPublicPrivate, options.MemberProperties, options.VisibilityPublic | options.VisibilityPrivate, false},
		{describe.PropertiesPublicProtected, options.MemberProperties, options.VisibilityPublic | options.VisibilityProtected, true},
	}

	for _, tt := range tests {
		t.Run(tt.variant.Name(), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, options.Filter{Members: tt.members, Visibility: tt.visible}, tt.variant.Filter())
			assert.Equal(t, tt.caches, tt.variant.CachesDerivedForms())
		})
	}
}

func TestVariant_GetSharesCanonicalDescription(t *testing.T) {
	t.Parallel()

	v, err := describe.NewVariant("copy", describe.FieldsPublicProtected.Filter(), true)
	require.NoError(t, err)

	assert.Same(t, describe.FieldsPublicProtected.Get(reflect.TypeFor[store.Order]()), v.Get(reflect.TypeFor[store.Order]()))
	assert.Same(t, describe.Describe[store.Order](v), describe.Describe[*store.Order](v))
}

func TestVariant_GetForUse(t *testing.T) {
	t.Parallel()

	typ := reflect.TypeFor[store.Category]()

	t.Run("cached", func(t *testing.T) {
		t.Parallel()

		v := describe.FieldsProtectedPrivate
		raw := v.Get(reflect.TypeFor[warehouse.Money]())

		sealed := v.GetForUse(reflect.TypeFor[warehouse.Money](), false)
		assert.True(t, sealed.Sealed())
		assert.False(t, raw.Sealed(), "the canonical description is never sealed by a variant")
		assert.NotSame(t, raw, sealed)
		assert.Same(t, sealed, v.GetForUse(reflect.TypeFor[warehouse.Money](), false))

		flat := v.GetForUse(reflect.TypeFor[warehouse.Money](), true)
		assert.True(t, flat.Flattened())
		assert.Same(t, flat, v.GetForUse(reflect.TypeFor[warehouse.Money](), true))
		assert.Same(t, sealed, v.GetForUse(reflect.TypeFor[warehouse.Money](), false))
	})

	t.Run("recomputed", func(t *testing.T) {
		t.Parallel()

		v := describe.FieldsPublicProtected

		first := v.GetForUse(typ, false)
		second := v.GetForUse(typ, false)
		assert.NotSame(t, first, second)
		assert.True(t, first.Sealed())
		assert.Equal(t, names(first), names(second))

		flat := v.GetForUse(typ, true)
		require.True(t, flat.Flattened())
		assert.NotSame(t, flat, v.GetForUse(typ, true))

		parent, _ := flat.Member("Parent")
		assert.True(t, parent.Description().IsRef())
		assert.Same(t, flat, parent.Description().Target())
	})
}

func TestVariant_GetForUseConcurrent(t *testing.T) {
	t.Parallel()

	v, err := describe.NewVariant("concurrent", describe.FieldsPublicProtected.Filter(), true,
		describe.WithIDProvider(description.NewSequence("c")))
	require.NoError(t, err)

	results := make([]*description.TypeDescription, 32)

	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			results[i] = v.GetForUse(reflect.TypeFor[store.Customer](), i%2 == 0)
			return nil
		})
	}

	require.NoError(t, g.Wait())

	for i, d := range results {
		assert.Same(t, results[i%2], d)
	}

	flat := results[0]
	assert.True(t, flat.Flattened())
	assert.Equal(t, []string{"c1"}, flat.IDs())

	sealed := results[1]
	assert.True(t, sealed.Sealed())
	assert.False(t, sealed.Flattened())
}

func TestNewVariant_InvalidFilter(t *testing.T) {
	t.Parallel()

	_, err := describe.NewVariant("broken", options.Filter{Visibility: options.VisibilityAll}, true)
	require.ErrorIs(t, err, options.ErrEmptyMembers)
}

func TestVariantsFromConfig(t *testing.T) {
	t.Parallel()

	f, err := options.Parse([]byte(`
variants:
  - name: api
    members: fields
    visibility: public|protected
    cache_derived_forms: false
  - name: storage
    members: fields
    visibility: [protected, private]
`))
	require.NoError(t, err)

	variants, err := describe.VariantsFromConfig(f)
	require.NoError(t, err)
	require.Len(t, variants, 2)

	assert.Equal(t, "api", variants[0].Name())
	assert.False(t, variants[0].CachesDerivedForms())
	assert.Equal(t, describe.FieldsPublicProtected.Filter(), variants[0].Filter())

	assert.True(t, variants[1].CachesDerivedForms())
	assert.Equal(t, describe.FieldsProtectedPrivate.Filter(), variants[1].Filter())

	d := describe.DescribeForUse[warehouse.Money](variants[1], false)
	assert.Equal(t, []string{"amount", "currency"}, names(d))
}

package describe_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"shape-caster/describe"
	"shape-caster/description"
	"shape-caster/internal/fixture/store"
	"shape-caster/internal/fixture/warehouse"
	"shape-caster/options"
)

var (
	publicFields = options.Filter{Members: options.MemberFields, Visibility: options.VisibilityPublic}
	allFields    = options.Filter{Members: options.MemberFields, Visibility: options.VisibilityAll}
)

func names(d *description.TypeDescription) []string {
	res := make([]string, 0, d.Len())
	for _, m := range d.Members() {
		res = append(res, m.Name)
	}

	return res
}

func ExampleBuild() {
	d := describe.Build(reflect.TypeFor[store.Order](), publicFields)

	for _, m := range d.Members() {
		fmt.Println(m.Name, m.Description().Shape(), m.Optional)
	}

	// Output:
	// Attributes map false
	// Customer object true
	// ID scalar false
	// Items list false
	// Notes list false
	// OrderedAt object false
	// Status scalar false
	// Total object false
}

func TestBuild_SelfReference(t *testing.T) {
	t.Parallel()

	d := describe.Build(reflect.TypeFor[store.Category](), publicFields)

	parent, ok := d.Member("Parent")
	require.True(t, ok)
	assert.Same(t, d, parent.Description())
	assert.True(t, parent.Optional)

	children, ok := d.Member("Children")
	require.True(t, ok)
	assert.Same(t, d, children.Description().Elem(), "pointer elements are described by their target")
}

func TestBuild_MutualRecursion(t *testing.T) {
	t.Parallel()

	customer := describe.Build(reflect.TypeFor[store.Customer](), publicFields)
	order := describe.Build(reflect.TypeFor[store.Order](), publicFields)

	orders, _ := customer.Member("Orders")
	back, _ := order.Member("Customer")

	assert.Same(t, order, orders.Description().Elem())
	assert.Same(t, customer, back.Description())
}

func TestBuild_IdempotentAndConcurrent(t *testing.T) {
	t.Parallel()

	type node struct {
		Next     *node
		Children []node
		Index    map[string]*node
		Label    string
	}

	types := []reflect.Type{
		reflect.TypeFor[node](),
		reflect.TypeFor[*node](),
		reflect.TypeFor[[]node](),
		reflect.TypeFor[map[string]*node](),
	}

	results := make([]*description.TypeDescription, 64)

	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			results[i] = describe.Build(types[i%len(types)], allFields)
			return nil
		})
	}

	require.NoError(t, g.Wait())

	for i, d := range results {
		assert.Same(t, describe.Build(types[i%len(types)], allFields), d)
	}

	self := results[0]
	assert.Same(t, self, results[1], "pointer types share the element description")

	next, _ := self.Member("Next")
	index, _ := self.Member("Index")
	assert.Same(t, self, next.Description())
	assert.Same(t, results[3], index.Description())
	assert.Same(t, self, results[3].Elem())
	assert.Equal(t, reflect.String, results[3].KeyDesc().Type().Kind())
}

func TestBuild_Visibility(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		typ    reflect.Type
		filter options.Filter
		want   []string
	}{
		{
			name:   "public and protected fields",
			typ:    reflect.TypeFor[warehouse.Customer](),
			filter: options.Filter{Members: options.MemberFields, Visibility: options.VisibilityPublic | options.VisibilityProtected},
			want:   []string{"Address", "CreatedAt", "Email", "FullName", "ID", "Orders", "Tags", "UpdatedAt"},
		},
		{
			name:   "protected fields only",
			typ:    reflect.TypeFor[warehouse.Customer](),
			filter: options.Filter{Members: options.MemberFields, Visibility: options.VisibilityProtected},
			want:   []string{"CreatedAt", "UpdatedAt"},
		},
		{
			name:   "private fields",
			typ:    reflect.TypeFor[warehouse.Money](),
			filter: options.Filter{Members: options.MemberFields, Visibility: options.VisibilityProtected | options.VisibilityPrivate},
			want:   []string{"amount", "currency"},
		},
		{
			name:   "declared properties",
			typ:    reflect.TypeFor[warehouse.Money](),
			filter: options.Filter{Members: options.MemberProperties, Visibility: options.VisibilityPublic | options.VisibilityPrivate},
			want:   []string{"Amount", "Currency"},
		},
		{
			name:   "promoted properties",
			typ:    reflect.TypeFor[warehouse.Customer](),
			filter: options.Filter{Members: options.MemberProperties, Visibility: options.VisibilityProtected},
			want:   []string{"Revision"},
		},
		{
			name:   "promoted properties are not public",
			typ:    reflect.TypeFor[warehouse.Customer](),
			filter: options.Filter{Members: options.MemberProperties, Visibility: options.VisibilityPublic | options.VisibilityPrivate},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := describe.Build(tt.typ, tt.filter)
			assert.Equal(t, tt.want, names(d), spew.Sdump(d.Members()))
		})
	}
}

func TestBuild_Properties(t *testing.T) {
	t.Parallel()

	d := describe.Build(reflect.TypeFor[store.Product](), options.Filter{
		Members:    options.MemberAll,
		Visibility: options.VisibilityPublic,
	})

	assert.Equal(t, []string{"Category", "Dimensions", "ID", "Price", "SKU"}, names(d))

	price, _ := d.Member("Price")
	assert.Equal(t, options.MemberProperties, price.Kind)
	assert.True(t, price.Writable)
	assert.Nil(t, price.Index)
	assert.Equal(t, reflect.TypeFor[store.Money](), price.Description().Type())

	sku, _ := d.Member("SKU")
	assert.Equal(t, options.MemberFields, sku.Kind)
	assert.Equal(t, []int{1}, sku.Index)

	money := describe.Build(reflect.TypeFor[warehouse.Money](), options.Filter{
		Members:    options.MemberProperties,
		Visibility: options.VisibilityPublic,
	})
	amount, _ := money.Member("Amount")
	assert.False(t, amount.Writable)
}

func TestBuild_Leaves(t *testing.T) {
	t.Parallel()

	d := describe.Build(reflect.TypeFor[int](), allFields)
	assert.Zero(t, d.Len())
	assert.Equal(t, description.ShapeScalar, d.Shape())

	d = describe.Build(reflect.TypeFor[fmt.Stringer](), options.Filter{Members: options.MemberAll, Visibility: options.VisibilityAll})
	assert.Zero(t, d.Len())
}

func TestBuild_InvalidFilter(t *testing.T) {
	t.Parallel()

	defer func() {
		err, _ := recover().(error)
		assert.ErrorIs(t, err, describe.ErrInvalidFilter)
	}()

	describe.Build(reflect.TypeFor[int](), options.Filter{Members: options.MemberFields})
	t.Fatal("expected a panic")
}

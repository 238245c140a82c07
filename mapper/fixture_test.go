package mapper_test

import (
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shape-caster/internal/fixture/store"
	"shape-caster/internal/fixture/warehouse"
	"shape-caster/mapper"
	"shape-caster/primitive"
)

func TestMapper_Record(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	money := mapper.MustGet[store.Money, warehouse.Money](m)(store.Money{Amount: 990, Currency: "USD"})
	assert.True(t, money.Equal(warehouse.NewMoney(990, "USD")))

	back := mapper.MustGet[warehouse.Money, store.Money](m)(money)
	assert.Equal(t, store.Money{Amount: 990, Currency: "USD"}, back)
}

func TestMapper_Order(t *testing.T) {
	t.Parallel()

	m := mapper.New(mapper.WithConversions(primitive.CategorySafeNumber | primitive.CategoryEnumString))

	out := mapper.MustGet[store.Order, warehouse.Order](m)(store.SampleOrder())

	assert.EqualValues(t, 1001, out.ID)
	assert.Equal(t, warehouse.Status("PAID"), out.Status)
	assert.True(t, out.Total.Equal(warehouse.NewMoney(4500, "EUR")))
	assert.Equal(t, [4]string{"gift wrap", "leave at door", "", ""}, out.Notes)
	assert.Equal(t, map[string]string{"channel": "web", "coupon": "SPRING"}, out.Attributes)
	assert.Equal(t, time.Date(2024, 3, 2, 14, 0, 0, 0, time.UTC), out.OrderedAt)
	assert.True(t, out.CreatedAt.IsZero(), "no source member feeds the audit")

	require.Len(t, out.Items, 2, spew.Sdump(out))
	assert.Equal(t, int64(6), out.Items[1].Quantity)
	assert.Equal(t, int64(250), out.Items[1].UnitPrice.Amount())

	require.NotNil(t, out.Customer)
	assert.Equal(t, "Ada Lovelace", out.Customer.FullName)
	assert.Equal(t, "London", out.Customer.Address.City)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), out.Customer.CreatedAt)
	assert.Nil(t, out.Customer.Orders)

	tags, ok := out.Customer.Tags.(map[string]string)
	require.True(t, ok, spew.Sdump(out.Customer.Tags))
	assert.Equal(t, "gold", tags["tier"])
}

func TestMapper_OrderNeedsStatusConversion(t *testing.T) {
	t.Parallel()

	m := mapper.New()

	_, err := mapper.Get[store.Order, warehouse.Order](m)
	require.ErrorIs(t, err, mapper.ErrNoConversion)
	assert.Contains(t, err.Error(), "member Status")

	_, again := mapper.Get[store.Order, warehouse.Order](m)
	assert.Equal(t, err, again, "failures are memoized")

	lower := func(s store.OrderStatus) warehouse.Status {
		return warehouse.Status(strings.ToLower(string(s)))
	}

	assert.ErrorIs(t, m.RegisterCaster(lower), mapper.ErrAlreadyBuilt)

	fresh := mapper.New()
	require.NoError(t, fresh.RegisterCaster(lower))

	out := mapper.MustGet[store.Order, warehouse.Order](fresh)(store.SampleOrder())
	assert.Equal(t, warehouse.Status("paid"), out.Status)
}

func TestMapper_Product(t *testing.T) {
	t.Parallel()

	src := store.Product{ID: 3, SKU: "PEN-1", Category: store.SampleCategory(), Dimensions: [3]float32{1, 2.5, 14}}
	src.SetPrice(store.Money{Amount: 350, Currency: "EUR"})

	m := mapper.New(mapper.WithConversions(primitive.CategorySafeNumber | primitive.CategoryUnsafeNumber))

	out := mapper.MustGet[store.Product, warehouse.Product](m)(src)
	assert.Equal(t, []float64{1, 2.5, 14}, out.Dimensions)
	assert.True(t, out.Price.Equal(warehouse.NewMoney(350, "EUR")), "getter feeds the record")
	require.NotNil(t, out.Category)
	assert.Equal(t, "pens", out.Category.Name)

	back := mapper.MustGet[warehouse.Product, store.Product](m)(out)
	assert.Equal(t, src.Price(), back.Price(), "setter receives the price")
	assert.Equal(t, src.Dimensions, back.Dimensions)
	assert.Equal(t, src.Category, back.Category)
}

func TestMapper_CategoryTree(t *testing.T) {
	t.Parallel()

	out := mapper.MustGet[*store.Category, warehouse.Category](mapper.New())(store.SampleCategory())

	assert.Equal(t, "pens", out.Name)
	require.NotNil(t, out.Parent)
	assert.Equal(t, "stationery", out.Parent.Name)
	assert.Nil(t, out.Parent.Parent)
	require.Len(t, out.Parent.Children, 2)
	assert.Equal(t, "ink", out.Parent.Children[1].Name)
	assert.Empty(t, out.Children)
}

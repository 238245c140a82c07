// Package warehouse is the persistence model of the shop. It differs from
// the store model in member kinds, nullability, collection shapes and numeric
// widths, while member names line up.
package warehouse

import (
	"time"
)

// Status mirrors store.OrderStatus with a distinct named type.
type Status string

// Audit is embedded into persisted entities; its fields are promoted.
type Audit struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	revision int
}

func (a Audit) Revision() int {
	return a.revision
}

// Money is an immutable value: it is only ever built by the mapper or NewMoney.
type Money struct {
	amount   int64
	currency string
}

func NewMoney(amount int64, currency string) Money {
	return Money{amount: amount, currency: currency}
}

func (Money) Record() {}

func (m Money) Amount() int64 {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) Equal(other Money) bool {
	return m == other
}

type Address struct {
	Street     string
	City       string
	PostalCode string
	Country    string
}

// Customer has a required address and keeps tags behind an interface.
type Customer struct {
	Audit

	ID       int64
	Email    string
	FullName string
	Address  Address
	Orders   []*Order
	Tags     any
}

type Order struct {
	Audit

	ID         int64
	Customer   *Customer
	Status     Status
	Total      Money
	Items      []OrderItem
	Notes      [4]string
	Attributes map[string]string
	OrderedAt  time.Time
}

type OrderItem struct {
	ProductID int64
	Name      string
	Quantity  int64
	UnitPrice Money
}

type Category struct {
	Name     string
	Parent   *Category
	Children []Category
}

type Product struct {
	ID         int64
	SKU        string
	Category   *Category
	Dimensions []float64
	Price      Money
}

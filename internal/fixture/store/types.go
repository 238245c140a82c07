// Package store is the API-facing model of a small shop. Its types are the
// usual sources of mapping tests; their warehouse counterparts are the
// destinations.
package store

import (
	"time"
)

// 1. OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// 2. Money is an amount in the lowest currency unit.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// 3. Address is optional on a customer.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// 4. Customer places orders; orders point back at their customer.
type Customer struct {
	ID        int64             `json:"id"`
	Email     string            `json:"email"`
	FullName  string            `json:"full_name"`
	Address   *Address          `json:"address,omitempty"`
	Orders    []Order           `json:"orders,omitempty"`
	Tags      map[string]string `json:"tags,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// 5. Order represents a transaction made by a customer.
type Order struct {
	ID         int64             `json:"id"`
	Customer   *Customer         `json:"customer,omitempty"`
	Status     OrderStatus       `json:"status"`
	Total      Money             `json:"total"`
	Items      []OrderItem       `json:"items"`
	Notes      []string          `json:"notes,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OrderedAt  time.Time         `json:"ordered_at"`
}

// 6. OrderItem snapshots the price at the time of purchase.
type OrderItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
	UnitPrice Money  `json:"unit_price"`
}

// 7. Category forms a tree through its parent and children.
type Category struct {
	Name     string      `json:"name"`
	Parent   *Category   `json:"parent,omitempty"`
	Children []*Category `json:"children,omitempty"`
}

// 8. Product keeps its price behind a getter and a setter.
type Product struct {
	ID         int64      `json:"id"`
	SKU        string     `json:"sku"`
	Category   *Category  `json:"category,omitempty"`
	Dimensions [3]float32 `json:"dimensions"`

	price Money
}

func (p Product) Price() Money {
	return p.price
}

func (p *Product) SetPrice(m Money) {
	p.price = m
}

// SampleOrder returns an order with every member populated. The customer's
// own order list is left empty so the value graph has no cycle.
func SampleOrder() Order {
	return Order{
		ID: 1001,
		Customer: &Customer{
			ID:        7,
			Email:     "ada@example.com",
			FullName:  "Ada Lovelace",
			Address:   &Address{Street: "12 St James's Square", City: "London", PostalCode: "SW1Y 4JH", Country: "GB"},
			Tags:      map[string]string{"tier": "gold"},
			CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		},
		Status: StatusPaid,
		Total:  Money{Amount: 4500, Currency: "EUR"},
		Items: []OrderItem{
			{ProductID: 1, Name: "Notebook", Quantity: 2, UnitPrice: Money{Amount: 1500, Currency: "EUR"}},
			{ProductID: 2, Name: "Pencil", Quantity: 6, UnitPrice: Money{Amount: 250, Currency: "EUR"}},
		},
		Notes:      []string{"gift wrap", "leave at door"},
		Attributes: map[string]string{"channel": "web", "coupon": "SPRING"},
		OrderedAt:  time.Date(2024, 3, 2, 14, 0, 0, 0, time.UTC),
	}
}

// SampleCategory returns a category with a parent that has children of its
// own. Parents do not list the returned category, so the value graph is a tree.
func SampleCategory() *Category {
	return &Category{
		Name: "pens",
		Parent: &Category{
			Name:     "stationery",
			Children: []*Category{{Name: "paper"}, {Name: "ink"}},
		},
	}
}

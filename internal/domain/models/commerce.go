package models

import (
	"strings"
	"time"
)

// Product is an item sold at the farm POS.
type Product struct {
	ID    string  `bson:"_id" json:"id"`
	Name  string  `bson:"name" json:"name"`
	Unit  string  `bson:"unit,omitempty" json:"unit,omitempty"`
	Price float64 `bson:"price" json:"price"`
	Stock float64 `bson:"stock" json:"stock"`
}

// Validate checks the required product fields.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "product name required")
	}
	if p.Price < 0 || p.Stock < 0 {
		return invalid("price", "price and stock must not be negative")
	}
	return nil
}

// Customer buys from the farm.
type Customer struct {
	ID    string `bson:"_id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
}

// Validate checks the required customer fields.
func (c *Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name", "customer name required")
	}
	return nil
}

// OrderItem is one line on an order.
type OrderItem struct {
	ProductID string  `bson:"product_id" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Quantity  float64 `bson:"quantity" json:"quantity"`
	UnitPrice float64 `bson:"unit_price" json:"unitPrice"`
}

// LineTotal is quantity times unit price.
func (i OrderItem) LineTotal() float64 {
	return i.Quantity * i.UnitPrice
}

// Order is a completed POS sale.
type Order struct {
	ID         string      `bson:"_id" json:"id"`
	CustomerID string      `bson:"customer_id,omitempty" json:"customerId,omitempty"`
	Items      []OrderItem `bson:"items" json:"items"`
	Discount   float64     `bson:"discount" json:"discount"`
	TaxRatePct float64     `bson:"tax_rate_pct" json:"taxRatePct"`
	Subtotal   float64     `bson:"subtotal" json:"subtotal"`
	Tax        float64     `bson:"tax" json:"tax"`
	Total      float64     `bson:"total" json:"total"`
	PaidWith   string      `bson:"paid_with,omitempty" json:"paidWith,omitempty"`
	CreatedAt  time.Time   `bson:"created_at" json:"createdAt"`
}

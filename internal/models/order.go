// internal/models/order.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ProductID string  `json:"ProductId" dynamodbav:"ProductId"`
	Quantity  int     `json:"Quantity" dynamodbav:"Quantity"`
	Price     float64 `json:"Price" dynamodbav:"Price"`
	Name      string  `json:"Name" dynamodbav:"Name"`
}

// Subtotal is quantity times unit price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is owned by the order-management backend; this service only reads it.
type Order struct {
	OrderID              string      `json:"OrderId" dynamodbav:"OrderId"`
	Status               OrderStatus `json:"Status" dynamodbav:"Status"`
	Items                []OrderItem `json:"Items" dynamodbav:"Items"`
	FirstItemImage       string      `json:"FirstItemImage" dynamodbav:"FirstItemImage"`
	FirstItemName        string      `json:"FirstItemName" dynamodbav:"FirstItemName"`
	ShippingAddress      string      `json:"ShippingAddress" dynamodbav:"ShippingAddress"`
	TotalAmount          float64     `json:"TotalAmount" dynamodbav:"TotalAmount"`
	CreatedAt            string      `json:"CreatedAt" dynamodbav:"CreatedAt"`
	UpdatedAt            string      `json:"UpdatedAt" dynamodbav:"UpdatedAt"`
	ShiprocketOrderID    string      `json:"ShiprocketOrderId,omitempty" dynamodbav:"ShiprocketOrderId,omitempty"`
	ShiprocketShipmentID string      `json:"ShiprocketShipmentId,omitempty" dynamodbav:"ShiprocketShipmentId,omitempty"`
	ShiprocketAwb        string      `json:"ShiprocketAwb,omitempty" dynamodbav:"ShiprocketAwb,omitempty"`
	CourierName          string      `json:"CourierName,omitempty" dynamodbav:"CourierName,omitempty"`
	Email                string      `json:"Email" dynamodbav:"Email"`
	UserID               string      `json:"UserId" dynamodbav:"UserId"`
}

// ComputedTotal sums the line items without float drift.
func (o Order) ComputedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount is the total quantity across all line items.
func (o Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// MatchesSearch reports whether term (already lower-cased) occurs in the
// customer email or the first item's name.
func (o Order) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(o.Email), term) ||
		strings.Contains(strings.ToLower(o.FirstItemName), term)
}

// Address decodes the serialized shipping address. Legacy rows that hold a
// plain string are returned in Raw.
func (o Order) Address() Address {
	var addr Address
	raw := strings.TrimSpace(o.ShippingAddress)
	if raw == "" {
		return addr
	}
	if err := json.Unmarshal([]byte(raw), &addr); err != nil {
		return Address{Raw: raw}
	}
	return addr
}

type Address struct {
	ID          string `json:"id,omitempty"`
	FullName    string `json:"fullName"`
	Phone       string `json:"phone"`
	HouseNumber string `json:"houseNumber"`
	Street      string `json:"street"`
	Landmark    string `json:"landmark,omitempty"`
	Area        string `json:"area"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
	Raw         string `json:"-"`
}

// Lines renders the address the way the order drawer shows it.
func (a Address) Lines() []string {
	if a.Raw != "" {
		return []string{a.Raw}
	}

	var lines []string
	if a.FullName != "" {
		lines = append(lines, a.FullName)
	}
	lines = append(lines, joinNonEmpty(", ", a.HouseNumber, a.Street))
	if a.Landmark != "" {
		lines = append(lines, "Near "+a.Landmark)
	}
	if a.Area != "" {
		lines = append(lines, a.Area)
	}
	lines = append(lines, fmt.Sprintf("%s - %s", joinNonEmpty(", ", a.City, a.State), a.Pincode))
	if a.Phone != "" {
		lines = append(lines, a.Phone)
	}
	return lines
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

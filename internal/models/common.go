// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Enums
type Role string

const (
	RoleAdmin Role = "admin"
)

// OrderStatus values are listed in lifecycle order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusConfirmed      OrderStatus = "CONFIRMED"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusOutForDelivery OrderStatus = "OUTFORDELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
)

// OrderStatusAll is the sentinel the listing UI sends for "no filter".
const OrderStatusAll OrderStatus = "ALL"

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusPending:        "Pending",
	OrderStatusPaid:           "Paid",
	OrderStatusConfirmed:      "Confirmed",
	OrderStatusShipped:        "Shipped",
	OrderStatusOutForDelivery: "Out for delivery",
	OrderStatusDelivered:      "Delivered",
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusLabels[s]
	return ok
}

// Rank is the position of s in the lifecycle, or -1 for unknown values.
func (s OrderStatus) Rank() int {
	for i, status := range OrderStatuses {
		if status == s {
			return i
		}
	}
	return -1
}

func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseOrderStatus accepts "" and "ALL" as no filter.
func ParseOrderStatus(raw string) (status OrderStatus, filtered bool, ok bool) {
	if raw == "" || OrderStatus(raw) == OrderStatusAll {
		return "", false, true
	}
	status = OrderStatus(raw)
	if !status.Valid() {
		return "", false, false
	}
	return status, true, true
}

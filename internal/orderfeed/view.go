// internal/orderfeed/view.go
package orderfeed

import (
	"github.com/shopspring/decimal"

	"github.com/driprats/storefront-admin/internal/models"
)

// Row is what the order table, cards and detail drawer render for one order.
type Row struct {
	OrderID     string             `json:"orderId"`
	Email       string             `json:"email"`
	ItemName    string             `json:"itemName"`
	ItemImage   string             `json:"itemImage"`
	ItemCount   int                `json:"itemCount"`
	Status      models.OrderStatus `json:"status"`
	StatusLabel string             `json:"statusLabel"`
	// Progress is the lifecycle position (0 = pending), -1 when unknown.
	Progress  int             `json:"progress"`
	Total     decimal.Decimal `json:"total"`
	Address   []string        `json:"address"`
	Courier   string          `json:"courier,omitempty"`
	Awb       string          `json:"awb,omitempty"`
	CreatedAt string          `json:"createdAt"`
}

// Rows keeps the input order.
func Rows(orders []models.Order) []Row {
	rows := make([]Row, len(orders))
	for i, o := range orders {
		rows[i] = Row{
			OrderID:     o.OrderID,
			Email:       o.Email,
			ItemName:    o.FirstItemName,
			ItemImage:   o.FirstItemImage,
			ItemCount:   o.ItemCount(),
			Status:      o.Status,
			StatusLabel: o.Status.Label(),
			Progress:    o.Status.Rank(),
			Total:       o.ComputedTotal(),
			Address:     o.Address().Lines(),
			Courier:     o.CourierName,
			Awb:         o.ShiprocketAwb,
			CreatedAt:   o.CreatedAt,
		}
	}
	return rows
}

// Rows renders the loaded orders.
func (f *Feed) Rows() []Row {
	return Rows(f.Orders())
}

// internal/orderfeed/summary.go
package orderfeed

import (
	"github.com/shopspring/decimal"

	"github.com/driprats/storefront-admin/internal/models"
)

// Summary backs the overview cards. Shipped includes orders out for delivery.
type Summary struct {
	Total     int             `json:"total"`
	Pending   int             `json:"pending"`
	Shipped   int             `json:"shipped"`
	Delivered int             `json:"delivered"`
	Revenue   decimal.Decimal `json:"revenue"`
}

func Summarize(orders []models.Order) Summary {
	s := Summary{Total: len(orders), Revenue: decimal.Zero}
	for _, o := range orders {
		switch o.Status {
		case models.OrderStatusPending:
			s.Pending++
		case models.OrderStatusShipped, models.OrderStatusOutForDelivery:
			s.Shipped++
		case models.OrderStatusDelivered:
			s.Delivered++
		}
		s.Revenue = s.Revenue.Add(o.ComputedTotal())
	}
	return s
}

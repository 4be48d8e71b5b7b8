// internal/database/seeds.go
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/driprats/storefront-admin/internal/models"
)

// OrderWriter is the subset of the order repository the seeder needs.
type OrderWriter interface {
	EnsureTable(ctx context.Context) error
	PutOrder(ctx context.Context, order models.Order) error
}

// SeedOrders writes illustrative orders for local development.
func SeedOrders(ctx context.Context, w OrderWriter) (int, error) {
	logrus.Info("Seeding sample orders...")

	if err := w.EnsureTable(ctx); err != nil {
		return 0, err
	}

	orders := SampleOrders()
	for _, order := range orders {
		if err := w.PutOrder(ctx, order); err != nil {
			return 0, fmt.Errorf("failed to seed order %s: %w", order.OrderID, err)
		}
	}

	logrus.WithField("count", len(orders)).Info("Sample orders seeded")
	return len(orders), nil
}

// SampleOrders covers every lifecycle status.
func SampleOrders() []models.Order {
	type seed struct {
		id, status, email, user, created string
		items                            []models.OrderItem
		image                            string
		addr                             models.Address
		courier, awb                     string
	}

	seeds := []seed{
		{
			id: "order-1", status: "PENDING", email: "john.doe@email.com", user: "user-1", created: "2024-01-15T10:30:00Z",
			items: []models.OrderItem{
				{ProductID: "prod-1", Quantity: 2, Price: 29.99, Name: "Wireless Headphones"},
				{ProductID: "prod-2", Quantity: 1, Price: 49.99, Name: "Phone Case"},
			},
			image: "https://via.placeholder.com/150",
			addr:  models.Address{FullName: "John Doe", Phone: "9876543210", HouseNumber: "123", Street: "Main St", Area: "Downtown", City: "New York", State: "NY", Pincode: "10001"},
		},
		{
			id: "order-2", status: "SHIPPED", email: "jane.smith@email.com", user: "user-2", created: "2024-01-14T15:45:00Z",
			items: []models.OrderItem{
				{ProductID: "prod-3", Quantity: 1, Price: 199.99, Name: "Smart Watch"},
			},
			image:   "https://via.placeholder.com/150",
			addr:    models.Address{FullName: "Jane Smith", Phone: "9876501234", HouseNumber: "456", Street: "Oak Ave", Area: "Westside", City: "Los Angeles", State: "CA", Pincode: "90210"},
			courier: "Delhivery", awb: "AWB100200300",
		},
		{
			id: "order-3", status: "DELIVERED", email: "bob.wilson@email.com", user: "user-3", created: "2024-01-13T09:15:00Z",
			items: []models.OrderItem{
				{ProductID: "prod-4", Quantity: 3, Price: 15.99, Name: "Coffee Beans"},
				{ProductID: "prod-5", Quantity: 1, Price: 89.99, Name: "Coffee Maker"},
				{ProductID: "prod-6", Quantity: 2, Price: 24.99, Name: "Coffee Mugs"},
			},
			image:   "https://via.placeholder.com/150",
			addr:    models.Address{FullName: "Bob Wilson", Phone: "9123456780", HouseNumber: "789", Street: "Pine Rd", Landmark: "Central Park", Area: "Lakeview", City: "Chicago", State: "IL", Pincode: "60601"},
			courier: "Blue Dart", awb: "AWB400500600",
		},
		{
			id: "order-4", status: "PAID", email: "asha.rao@email.com", user: "user-4", created: "2024-01-16T08:05:00Z",
			items: []models.OrderItem{
				{ProductID: "gold-hoop-earrings", Quantity: 1, Price: 1999, Name: "Gold Hoop Earrings"},
			},
			image: "https://res.cloudinary.com/demo/image/upload/earrings.jpg",
			addr:  models.Address{FullName: "Asha Rao", Phone: "9999999999", HouseNumber: "12", Street: "MG Road", Area: "Indiranagar", City: "Bengaluru", State: "KA", Pincode: "560038"},
		},
		{
			id: "order-5", status: "CONFIRMED", email: "vikram.n@email.com", user: "user-5", created: "2024-01-16T11:20:00Z",
			items: []models.OrderItem{
				{ProductID: "silk-scarf", Quantity: 2, Price: 450, Name: "Silk Scarf"},
			},
			image: "https://res.cloudinary.com/demo/image/upload/scarf.jpg",
			addr:  models.Address{FullName: "Vikram N", Phone: "9000000001", HouseNumber: "4B", Street: "Park Street", Area: "Park Circus", City: "Kolkata", State: "WB", Pincode: "700017"},
		},
		{
			id: "order-6", status: "OUTFORDELIVERY", email: "meera.k@email.com", user: "user-6", created: "2024-01-12T17:40:00Z",
			items: []models.OrderItem{
				{ProductID: "pearl-pendant", Quantity: 1, Price: 2499, Name: "Pearl Pendant"},
			},
			image:   "https://res.cloudinary.com/demo/image/upload/pendant.jpg",
			addr:    models.Address{FullName: "Meera K", Phone: "9000000002", HouseNumber: "221", Street: "Linking Road", Area: "Bandra West", City: "Mumbai", State: "MH", Pincode: "400050"},
			courier: "Ekart", awb: "AWB700800900",
		},
	}

	orders := make([]models.Order, 0, len(seeds))
	for i, s := range seeds {
		addr, _ := json.Marshal(s.addr)
		order := models.Order{
			OrderID:         s.id,
			Status:          models.OrderStatus(s.status),
			Items:           s.items,
			FirstItemImage:  s.image,
			FirstItemName:   s.items[0].Name,
			ShippingAddress: string(addr),
			CreatedAt:       s.created,
			UpdatedAt:       s.created,
			CourierName:     s.courier,
			ShiprocketAwb:   s.awb,
			Email:           s.email,
			UserID:          s.user,
		}
		order.TotalAmount, _ = order.ComputedTotal().Float64()
		if s.awb != "" {
			order.ShiprocketOrderID = fmt.Sprintf("SR-%d", 1000+i)
			order.ShiprocketShipmentID = fmt.Sprintf("SH-%d", 5000+i)
		}
		orders = append(orders, order)
	}
	return orders
}

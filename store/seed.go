package store

import (
	"context"
	"fmt"
)

// Sequence floors keep issued ids clear of the seeded sample records.
var seedSequences = []IDSequence{
	{EntityType: "ticket", NextValue: 600},
	{EntityType: "order", NextValue: 500},
	{EntityType: "product", NextValue: 100},
	{EntityType: "user", NextValue: 200},
}

var seedUsers = []User{
	{UserID: "u101", Name: "Alex", Phone: "555-1234", Email: "alex@example.com", CreatedAt: "2025-11-01"},
	{UserID: "u202", Name: "Mehedi", Phone: "017xx-xxxxx", Email: "mehedi@cartup.local", CreatedAt: "2025-11-01"},
	{UserID: "u303", Name: "Sarah", Phone: "555-5678", Email: "sarah@example.com", CreatedAt: "2025-11-01"},
}

var seedProducts = []Product{
	{ProductID: "p001", Name: "Smartphone", Description: "Latest model smartphone with advanced features", Price: 299.99, Category: "Electronics", InStock: true, StockQuantity: 50},
	{ProductID: "p002", Name: "Wireless Earbuds", Description: "High-quality wireless earbuds with noise cancellation", Price: 79.99, Category: "Electronics", InStock: true, StockQuantity: 100},
	{ProductID: "p003", Name: "Phone Case", Description: "Protective case for smartphones", Price: 19.99, Category: "Accessories", InStock: true, StockQuantity: 200},
	{ProductID: "p004", Name: "USB-C Charger", Description: "Fast charging USB-C cable", Price: 15.99, Category: "Accessories", InStock: true, StockQuantity: 150},
	{ProductID: "p005", Name: "Laptop", Description: "High-performance laptop for work and gaming", Price: 899.99, Category: "Electronics", InStock: true, StockQuantity: 25},
}

var seedOrders = []Order{
	{OrderID: "o301", UserID: "u101", Status: "Delivered", Amount: 320.00, DeliveryDate: "2025-11-06", Address: "12 Baker Street, Dhaka", CreatedAt: "2025-11-01"},
	{OrderID: "o302", UserID: "u101", Status: "In Transit", Amount: 79.99, DeliveryDate: "2025-11-10", Address: "12 Baker Street, Dhaka", CreatedAt: "2025-11-05"},
	{OrderID: "o401", UserID: "u202", Status: "Processing", Amount: 19.99, Address: "SUST Hall, Sylhet", CreatedAt: "2025-11-08"},
	{OrderID: "o402", UserID: "u303", Status: "Delivered", Amount: 899.99, DeliveryDate: "2025-11-07", Address: "456 Main Street, New York", CreatedAt: "2025-11-02"},
}

var seedOrderItems = []OrderItem{
	{OrderID: "o301", ProductName: "Smartphone", Quantity: 1},
	{OrderID: "o301", ProductName: "Charger", Quantity: 1},
	{OrderID: "o302", ProductName: "Wireless Earbuds", Quantity: 1},
	{OrderID: "o401", ProductName: "Phone Case", Quantity: 1},
	{OrderID: "o402", ProductName: "Laptop", Quantity: 1},
}

var seedTickets = []Ticket{
	{TicketID: "t501", OrderID: "o301", Issue: "Damaged product", Status: "Resolved", CreatedAt: "2025-11-03"},
}

var seedRecommendations = []Recommendation{
	{UserID: "u101", ProductName: "Phone Case"},
	{UserID: "u101", ProductName: "Wireless Earbuds"},
	{UserID: "u202", ProductName: "USB-C Charger"},
	{UserID: "u202", ProductName: "Phone Case"},
	{UserID: "u303", ProductName: "Wireless Earbuds"},
	{UserID: "u303", ProductName: "USB-C Charger"},
}

// Seed loads the sample data set. It is a no-op when users already exist, so
// repeated startups do not duplicate records.
func (s *Store) Seed(ctx context.Context) error {
	count, err := s.db.NewSelect().Model((*User)(nil)).Count(ctx)
	if err != nil {
		return fmt.Errorf("check existing users: %w", err)
	}
	if count > 0 {
		return nil
	}

	seqs := seedSequences
	if _, err := s.db.NewInsert().Model(&seqs).On("CONFLICT (entity_type) DO NOTHING").Exec(ctx); err != nil {
		return fmt.Errorf("seed id sequences: %w", err)
	}

	users := seedUsers
	if _, err := s.db.NewInsert().Model(&users).Exec(ctx); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	products := seedProducts
	if _, err := s.db.NewInsert().Model(&products).Exec(ctx); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	orders := seedOrders
	if _, err := s.db.NewInsert().Model(&orders).Exec(ctx); err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}
	items := seedOrderItems
	if _, err := s.db.NewInsert().Model(&items).Exec(ctx); err != nil {
		return fmt.Errorf("seed order items: %w", err)
	}
	tickets := seedTickets
	if _, err := s.db.NewInsert().Model(&tickets).Exec(ctx); err != nil {
		return fmt.Errorf("seed tickets: %w", err)
	}
	recs := seedRecommendations
	if _, err := s.db.NewInsert().Model(&recs).Exec(ctx); err != nil {
		return fmt.Errorf("seed recommendations: %w", err)
	}

	return nil
}

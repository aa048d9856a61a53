package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/totostore/storefront/internal/domain"
)

// Seed inserts the demo catalog if the products table is empty.
// Safe to call on every startup.
func (s *Store) Seed(ctx context.Context) error {
	n, err := s.products.Count(ctx)
	if err != nil {
		return fmt.Errorf("sqlite: seed: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, p := range seedProducts() {
		p := p
		if err := s.products.Create(ctx, &p); err != nil {
			return fmt.Errorf("sqlite: seed: %w", err)
		}
	}
	return nil
}

func seedProducts() []domain.Product {
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	return []domain.Product{
		{
			Name:        "Wireless Bluetooth Headphones",
			Description: "Premium noise-canceling wireless headphones with 30-hour battery life",
			Price:       price("2999.00"),
			ImageURL:    "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=300&h=300&fit=crop",
			Category:    "Electronics",
			Stock:       50,
		},
		{
			Name:        "Smart Watch Pro",
			Description: "Fitness tracking smartwatch with heart rate monitor and GPS",
			Price:       price("4599.00"),
			ImageURL:    "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=300&h=300&fit=crop",
			Category:    "Electronics",
			Stock:       35,
		},
		{
			Name:        "Portable Power Bank 20000mAh",
			Description: "Fast charging portable charger with dual USB ports",
			Price:       price("1499.00"),
			ImageURL:    "https://images.unsplash.com/photo-1609592424109-dd9c1cfb04a5?w=300&h=300&fit=crop",
			Category:    "Electronics",
			Stock:       80,
		},
		{
			Name:        "Classic Cotton T-Shirt",
			Description: "Soft premium cotton tee, available in multiple colors",
			Price:       price("599.00"),
			ImageURL:    "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=300&h=300&fit=crop",
			Category:    "Clothing",
			Stock:       120,
		},
		{
			Name:        "Running Sneakers",
			Description: "Lightweight breathable running shoes with cushioned sole",
			Price:       price("3299.00"),
			ImageURL:    "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=300&h=300&fit=crop",
			Category:    "Footwear",
			Stock:       45,
		},
		{
			Name:        "Stainless Steel Water Bottle",
			Description: "Insulated 1L bottle, keeps drinks cold for 24 hours",
			Price:       price("899.00"),
			ImageURL:    "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=300&h=300&fit=crop",
			Category:    "Home",
			Stock:       200,
		},
	}
}

package ports

import (
	"context"

	"bookstore/internal/core/domain/model/cart"
	"bookstore/internal/core/domain/model/kernel"
)

// CartRepository defines the persistence contract for carts.
type CartRepository interface {
	// GetByUser returns the user's cart or a NotFound error when none exists yet.
	GetByUser(ctx context.Context, userID kernel.UUID) (*cart.Cart, error)

	// Save inserts or replaces the cart and its items.
	Save(ctx context.Context, aggregate *cart.Cart) error

	// Clear deletes the items of a cart and keeps the cart row.
	// Clearing an empty cart is not an error.
	Clear(ctx context.Context, cartID kernel.UUID) error

	Delete(ctx context.Context, cartID kernel.UUID) error
}

package ports

import (
	"context"
	"time"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/domain/model/order"
)

// DefaultOrderListLimit is used when an OrderFilter carries no limit.
const DefaultOrderListLimit = 20

// OrderFilter narrows FindByUser. Zero values mean "no constraint", except
// Limit, which falls back to DefaultOrderListLimit.
type OrderFilter struct {
	Status *order.Status
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// OrderRepository defines the persistence contract for order aggregates.
// Orders are stored with their items; the total is never persisted.
type OrderRepository interface {
	// Add persists a new order with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists status, addresses, timestamps and the current item set.
	Update(ctx context.Context, aggregate *order.Order) error

	// UpdateStatus writes only the status column and bumps updated_at.
	// Returns a NotFound error when no order has the given id.
	UpdateStatus(ctx context.Context, id kernel.UUID, status order.Status) error

	// Get retrieves an order with its items.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// FindByUser lists a user's orders, newest first.
	FindByUser(ctx context.Context, userID kernel.UUID, filter OrderFilter) ([]*order.Order, error)

	// Delete removes an order and its items.
	Delete(ctx context.Context, id kernel.UUID) error
}

package ports

import (
	"context"
	"time"

	"bookstore/internal/core/domain/model/kernel"
)

// Event names published by the order commands.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusUpdated = "order.status.updated"
)

// Event describes something that has already been committed.
type Event struct {
	Name        string
	AggregateID kernel.UUID
	OccurredAt  time.Time
	Payload     map[string]string
}

// Notifier delivers events to interested parties. It is called after commit;
// a delivery failure never affects the committed state.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

package ports

import (
	"context"

	"bookstore/internal/core/domain/model/book"
	"bookstore/internal/core/domain/model/kernel"
)

// BookRepository defines the persistence contract for books.
type BookRepository interface {
	Add(ctx context.Context, aggregate *book.Book) error
	Update(ctx context.Context, aggregate *book.Book) error
	Get(ctx context.Context, id kernel.UUID) (*book.Book, error)

	// GetMany returns the books with the given ids in no particular order.
	// Missing ids are skipped; callers compare lengths when they need all of them.
	GetMany(ctx context.Context, ids []kernel.UUID) ([]*book.Book, error)

	FindByCategory(ctx context.Context, categoryID kernel.UUID) ([]*book.Book, error)

	// UpdateStock overwrites the stock of one book. It rejects negative
	// quantities and reports a NotFound error for unknown ids.
	UpdateStock(ctx context.Context, id kernel.UUID, newQuantity int) error

	Delete(ctx context.Context, id kernel.UUID) error
}

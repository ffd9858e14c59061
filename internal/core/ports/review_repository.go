package ports

import (
	"context"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/domain/model/review"
)

// ReviewRepository defines the persistence contract for reviews.
type ReviewRepository interface {
	Add(ctx context.Context, aggregate *review.Review) error
	Update(ctx context.Context, aggregate *review.Review) error
	Get(ctx context.Context, id kernel.UUID) (*review.Review, error)
	FindByBook(ctx context.Context, bookID kernel.UUID) ([]*review.Review, error)

	// FindByUserAndBook returns a NotFound error when the user has not reviewed the book.
	FindByUserAndBook(ctx context.Context, userID, bookID kernel.UUID) (*review.Review, error)

	Delete(ctx context.Context, id kernel.UUID) error
}

package ports

import (
	"context"

	"bookstore/internal/core/domain/model/category"
	"bookstore/internal/core/domain/model/kernel"
)

// CategoryRepository defines the persistence contract for categories.
type CategoryRepository interface {
	Add(ctx context.Context, aggregate *category.Category) error
	Update(ctx context.Context, aggregate *category.Category) error
	Get(ctx context.Context, id kernel.UUID) (*category.Category, error)

	// FindByParent lists the direct children of parentID, or the root
	// categories when parentID is nil.
	FindByParent(ctx context.Context, parentID *kernel.UUID) ([]*category.Category, error)

	Delete(ctx context.Context, id kernel.UUID) error
}

package cartrepo

import (
	"context"
	"errors"
	"time"

	"bookstore/internal/adapters/out/postgres/pgerr"
	"bookstore/internal/core/domain/model/cart"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements ports.CartRepository using GORM.
type GormCartRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormCartRepository creates a new GORM cart repository.
func NewGormCartRepository(db *gorm.DB, tracker aggregateTracker) *GormCartRepository {
	return &GormCartRepository{
		db:      db,
		tracker: tracker,
	}
}

// GetByUser retrieves the cart of a user with its items.
func (r *GormCartRepository) GetByUser(ctx context.Context, userID kernel.UUID) (*cart.Cart, error) {
	var dto CartDTO
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("added_at") }).
		First(&dto, "user_id = ?", userID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("cart", userID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Save inserts the cart or updates its timestamp, then replaces its items.
func (r *GormCartRepository) Save(ctx context.Context, aggregate *cart.Cart) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	items := dto.Items
	dto.Items = nil

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}
		if err := tx.Omit(clause.Associations).Clauses(upsert).Create(&dto).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", dto.ID).Delete(&CartItemDTO{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		if pgerr.Is(err, pgerr.UniqueViolation) {
			return errs.NewConflictErrorWithCause("user already has a cart", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Clear deletes the items of a cart and keeps the cart row. Unknown or empty
// carts are left as they are.
func (r *GormCartRepository) Clear(ctx context.Context, cartID kernel.UUID) error {
	db := r.db.WithContext(ctx)

	result := db.Where("cart_id = ?", cartID.Bytes()).Delete(&CartItemDTO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return nil
	}

	err := db.Model(&CartDTO{}).Where("id = ?", cartID.Bytes()).Update("updated_at", time.Now().UTC()).Error
	if err != nil {
		return err
	}

	r.tracker.TrackAggregate(cartID, (*cart.Cart)(nil))
	return nil
}

// Delete removes a cart and its items.
func (r *GormCartRepository) Delete(ctx context.Context, cartID kernel.UUID) error {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID.Bytes()).Delete(&CartItemDTO{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&CartDTO{}, "id = ?", cartID.Bytes())
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return err
	}

	if affected == 0 {
		return errs.NewObjectNotFoundError("cart", cartID.String())
	}

	r.tracker.TrackAggregate(cartID, (*cart.Cart)(nil))
	return nil
}

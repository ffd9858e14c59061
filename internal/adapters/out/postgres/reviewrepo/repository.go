package reviewrepo

import (
	"context"
	"errors"

	"bookstore/internal/adapters/out/postgres/pgerr"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/domain/model/review"
	"bookstore/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormReviewRepository implements ports.ReviewRepository using GORM.
type GormReviewRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormReviewRepository creates a new GORM review repository.
func NewGormReviewRepository(db *gorm.DB, tracker aggregateTracker) *GormReviewRepository {
	return &GormReviewRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new review. A second review of the same book by the same user is a conflict.
func (r *GormReviewRepository) Add(ctx context.Context, aggregate *review.Review) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.Is(err, pgerr.UniqueViolation) {
			return errs.NewConflictErrorWithCause("user has already reviewed this book", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves rating and comment of an existing review.
func (r *GormReviewRepository) Update(ctx context.Context, aggregate *review.Review) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ReviewDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"rating":     dto.Rating,
		"comment":    dto.Comment,
		"updated_at": dto.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("review", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a review by ID.
func (r *GormReviewRepository) Get(ctx context.Context, id kernel.UUID) (*review.Review, error) {
	var dto ReviewDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("review", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindByBook lists the reviews of a book, newest first.
func (r *GormReviewRepository) FindByBook(ctx context.Context, bookID kernel.UUID) ([]*review.Review, error) {
	var dtos []ReviewDTO
	if err := r.db.WithContext(ctx).Where("book_id = ?", bookID.Bytes()).Order("created_at DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	reviews := make([]*review.Review, 0, len(dtos))
	for _, dto := range dtos {
		rv, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}

	return reviews, nil
}

// FindByUserAndBook retrieves the review a user wrote for a book.
func (r *GormReviewRepository) FindByUserAndBook(ctx context.Context, userID, bookID kernel.UUID) (*review.Review, error) {
	var dto ReviewDTO
	err := r.db.WithContext(ctx).First(&dto, "user_id = ? AND book_id = ?", userID.Bytes(), bookID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("review", userID.String()+"/"+bookID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Delete removes a review.
func (r *GormReviewRepository) Delete(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ReviewDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("review", id.String())
	}

	r.tracker.TrackAggregate(id, (*review.Review)(nil))
	return nil
}

package bookrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookstore/internal/adapters/out/postgres/pgerr"
	"bookstore/internal/core/domain/model/book"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBookRepository implements ports.BookRepository using GORM.
type GormBookRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormBookRepository creates a new GORM book repository.
func NewGormBookRepository(db *gorm.DB, tracker aggregateTracker) *GormBookRepository {
	return &GormBookRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new book to the database.
func (r *GormBookRepository) Add(ctx context.Context, aggregate *book.Book) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.Is(err, pgerr.UniqueViolation) {
			return errs.NewConflictErrorWithCause(fmt.Sprintf("isbn %s already exists", dto.ISBN), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing book to the database.
func (r *GormBookRepository) Update(ctx context.Context, aggregate *book.Book) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&BookDTO{}).Where("id = ?", dto.ID).Select("*").Omit("created_at").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("book", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a book by ID.
func (r *GormBookRepository) Get(ctx context.Context, id kernel.UUID) (*book.Book, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto BookDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("book", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetMany retrieves the books with the given IDs. Unknown IDs are skipped.
func (r *GormBookRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*book.Book, error) {
	if len(ids) == 0 {
		return []*book.Book{}, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []BookDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// FindByCategory retrieves the books of one category ordered by title.
func (r *GormBookRepository) FindByCategory(ctx context.Context, categoryID kernel.UUID) ([]*book.Book, error) {
	var dtos []BookDTO
	if err := r.db.WithContext(ctx).Where("category_id = ?", categoryID.Bytes()).Order("title").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// UpdateStock overwrites the stock of a single book.
func (r *GormBookRepository) UpdateStock(ctx context.Context, id kernel.UUID, newQuantity int) error {
	if newQuantity < 0 {
		return errs.NewValueIsInvalidErrorWithCause("stock", fmt.Errorf("%d is negative", newQuantity))
	}

	result := r.db.WithContext(ctx).Model(&BookDTO{}).Where("id = ?", id.Bytes()).Updates(map[string]any{
		"stock":      newQuantity,
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("book", id.String())
	}

	r.tracker.TrackAggregate(id, (*book.Book)(nil))
	return nil
}

// Delete removes a book.
func (r *GormBookRepository) Delete(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Delete(&BookDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("book", id.String())
	}

	r.tracker.TrackAggregate(id, (*book.Book)(nil))
	return nil
}

func toDomainList(dtos []BookDTO) ([]*book.Book, error) {
	books := make([]*book.Book, 0, len(dtos))
	for _, dto := range dtos {
		b, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}

	return books, nil
}

// Package bookrepo persists the Book aggregate with GORM.
package bookrepo

import (
	"time"

	"bookstore/internal/core/domain/model/book"
	"bookstore/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookDTO is the row of the books table. The check constraint keeps stock
// non-negative even if a writer bypasses the aggregate.
type BookDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Title       string          `gorm:"size:255;not null"`
	Author      string          `gorm:"size:255;not null"`
	ISBN        string          `gorm:"size:13;not null;uniqueIndex"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Stock       int             `gorm:"not null;check:stock >= 0"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt   time.Time       `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime:false"`
}

// TableName specifies the database table name for books.
func (BookDTO) TableName() string {
	return "books"
}

func fromDomain(b *book.Book) BookDTO {
	var categoryID *uuid.UUID
	if id := b.CategoryID(); id != nil {
		raw := id.Bytes()
		categoryID = &raw
	}

	return BookDTO{
		ID:          b.ID().Bytes(),
		Title:       b.Title(),
		Author:      b.Author(),
		ISBN:        b.ISBN().String(),
		Description: b.Description(),
		Price:       b.Price().Amount(),
		Stock:       b.Stock(),
		CategoryID:  categoryID,
		CreatedAt:   b.CreatedAt(),
		UpdatedAt:   b.UpdatedAt(),
	}
}

func toDomain(dto BookDTO) (*book.Book, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var categoryID *kernel.UUID
	if dto.CategoryID != nil {
		cID, categoryErr := kernel.UUIDFromBytes((*dto.CategoryID)[:])
		if categoryErr != nil {
			return nil, categoryErr
		}
		categoryID = &cID
	}

	isbn, err := book.NewISBN(dto.ISBN)
	if err != nil {
		return nil, err
	}

	price, err := kernel.NewPrice(dto.Price)
	if err != nil {
		return nil, err
	}

	return book.RestoreBook(id, dto.Title, dto.Author, isbn, dto.Description, price, dto.Stock, categoryID,
		dto.CreatedAt, dto.UpdatedAt)
}

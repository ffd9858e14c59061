// Package categoryrepo persists the Category aggregate with GORM.
package categoryrepo

import (
	"time"

	"bookstore/internal/core/domain/model/category"
	"bookstore/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CategoryDTO is the row of the categories table.
type CategoryDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name        string     `gorm:"size:100;not null"`
	Description string     `gorm:"size:500"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time  `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime:false"`
}

// TableName specifies the database table name for categories.
func (CategoryDTO) TableName() string {
	return "categories"
}

func fromDomain(c *category.Category) CategoryDTO {
	var parentID *uuid.UUID
	if id := c.ParentID(); id != nil {
		raw := id.Bytes()
		parentID = &raw
	}

	return CategoryDTO{
		ID:          c.ID().Bytes(),
		Name:        c.Name(),
		Description: c.Description(),
		ParentID:    parentID,
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}

func toDomain(dto CategoryDTO) (*category.Category, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var parentID *kernel.UUID
	if dto.ParentID != nil {
		pID, parentErr := kernel.UUIDFromBytes((*dto.ParentID)[:])
		if parentErr != nil {
			return nil, parentErr
		}
		parentID = &pID
	}

	return category.RestoreCategory(id, dto.Name, dto.Description, parentID, dto.CreatedAt, dto.UpdatedAt)
}

// Package cartrepo persists the Cart aggregate with GORM.
package cartrepo

import (
	"time"

	"bookstore/internal/core/domain/model/cart"
	"bookstore/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CartDTO is the row of the carts table. A user owns at most one cart.
type CartDTO struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt time.Time     `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime:false"`
	Items     []CartItemDTO `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for carts.
func (CartDTO) TableName() string {
	return "carts"
}

// CartItemDTO is one line of a cart.
type CartItemDTO struct {
	CartID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity int       `gorm:"not null;check:quantity >= 1"`
	AddedAt  time.Time `gorm:"not null"`
}

// TableName specifies the database table name for cart lines.
func (CartItemDTO) TableName() string {
	return "cart_items"
}

func fromDomain(c *cart.Cart) CartDTO {
	items := c.Items()
	dtoItems := make([]CartItemDTO, 0, len(items))
	for _, item := range items {
		dtoItems = append(dtoItems, CartItemDTO{
			CartID:   c.ID().Bytes(),
			BookID:   item.BookID().Bytes(),
			Quantity: item.Quantity(),
			AddedAt:  item.AddedAt(),
		})
	}

	return CartDTO{
		ID:        c.ID().Bytes(),
		UserID:    c.UserID().Bytes(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
		Items:     dtoItems,
	}
}

func toDomain(dto CartDTO) (*cart.Cart, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	items := make([]cart.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		bookID, bookErr := kernel.UUIDFromBytes(itemDTO.BookID[:])
		if bookErr != nil {
			return nil, bookErr
		}
		item, itemErr := cart.NewItem(bookID, itemDTO.Quantity, itemDTO.AddedAt)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return cart.RestoreCart(id, userID, items, dto.CreatedAt, dto.UpdatedAt)
}

// Package cart provides the shopping Cart aggregate. A user has at most one
// cart; it is created on the first add and emptied, never deleted, at checkout.
package cart

import (
	"errors"
	"fmt"
	"time"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"
)

// ErrCartIsNotConstructed is returned when a Cart was not created through NewCart or RestoreCart.
var ErrCartIsNotConstructed = errors.New("Cart must be created via NewCart constructor")

// Item is a book and a quantity of at least 1.
type Item struct {
	bookID   kernel.UUID
	quantity int
	addedAt  time.Time
}

// NewItem creates a cart line.
func NewItem(bookID kernel.UUID, quantity int, addedAt time.Time) (Item, error) {
	if err := bookID.Validate(); err != nil {
		return Item{}, err
	}
	if err := validateQuantity(quantity); err != nil {
		return Item{}, err
	}
	return Item{bookID: bookID, quantity: quantity, addedAt: addedAt}, nil
}

func (i Item) BookID() kernel.UUID { return i.bookID }
func (i Item) Quantity() int { return i.quantity }
func (i Item) AddedAt() time.Time { return i.addedAt }

// Cart holds the books a user intends to buy, at most one line per book.
type Cart struct {
	id        kernel.UUID
	userID    kernel.UUID
	items     []Item
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewCart creates an empty cart for userID.
func NewCart(id, userID kernel.UUID) (*Cart, error) {
	now := time.Now().UTC()
	return RestoreCart(id, userID, nil, now, now)
}

// RestoreCart rebuilds a cart from persistence.
func RestoreCart(id, userID kernel.UUID, items []Item, createdAt, updatedAt time.Time) (*Cart, error) {
	if err := errors.Join(id.Validate(), userID.Validate()); err != nil {
		return nil, err
	}

	c := &Cart{
		id:            id,
		userID:        userID,
		items:         make([]Item, 0, len(items)),
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}
	for _, item := range items {
		if c.indexOf(item.BookID()) >= 0 {
			return nil, errs.NewValueIsInvalidErrorWithCause("item",
				fmt.Errorf("book %s appears twice in cart", item.BookID()))
		}
		c.items = append(c.items, item)
	}

	return c, nil
}

// Validate ensures the Cart instance was properly constructed.
func (c *Cart) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCartIsNotConstructed
	}
	return nil
}

func (c *Cart) ID() kernel.UUID { return c.id }
func (c *Cart) UserID() kernel.UUID { return c.userID }
func (c *Cart) CreatedAt() time.Time { return c.createdAt }
func (c *Cart) UpdatedAt() time.Time { return c.updatedAt }

// Items returns a copy of the cart lines.
func (c *Cart) Items() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

// Item returns the line for bookID.
func (c *Cart) Item(bookID kernel.UUID) (Item, bool) {
	if idx := c.indexOf(bookID); idx >= 0 {
		return c.items[idx], true
	}
	return Item{}, false
}

// HasItem reports whether the cart holds bookID.
func (c *Cart) HasItem(bookID kernel.UUID) bool {
	return c.indexOf(bookID) >= 0
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// TotalItems returns the number of copies across all lines.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.items {
		total += item.quantity
	}
	return total
}

// UniqueItemsCount returns the number of distinct books.
func (c *Cart) UniqueItemsCount() int {
	return len(c.items)
}

// AddItem adds quantity copies of bookID, merging with an existing line.
func (c *Cart) AddItem(bookID kernel.UUID, quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if idx := c.indexOf(bookID); idx >= 0 {
		c.items[idx].quantity += quantity
		c.touch()
		return nil
	}
	item, err := NewItem(bookID, quantity, time.Now().UTC())
	if err != nil {
		return err
	}
	c.items = append(c.items, item)
	c.touch()
	return nil
}

// UpdateItemQuantity sets the quantity of an existing line. A quantity of zero
// or less removes the line.
func (c *Cart) UpdateItemQuantity(bookID kernel.UUID, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(bookID)
	}
	idx := c.indexOf(bookID)
	if idx < 0 {
		return errs.NewObjectNotFoundError("cart item", bookID.String())
	}
	c.items[idx].quantity = quantity
	c.touch()
	return nil
}

// RemoveItem drops the line for bookID.
func (c *Cart) RemoveItem(bookID kernel.UUID) error {
	idx := c.indexOf(bookID)
	if idx < 0 {
		return errs.NewObjectNotFoundError("cart item", bookID.String())
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.touch()
	return nil
}

// Clear removes every line. Clearing an empty cart is a no-op.
func (c *Cart) Clear() {
	if len(c.items) == 0 {
		return
	}
	c.items = c.items[:0]
	c.touch()
}

// EstimatedTotal prices the cart with the given catalogue prices. Every book
// in the cart must have a price.
func (c *Cart) EstimatedTotal(prices map[kernel.UUID]kernel.Price) (kernel.Price, error) {
	total := kernel.ZeroPrice()
	for _, item := range c.items {
		price, ok := prices[item.bookID]
		if !ok {
			return kernel.Price{}, errs.NewObjectNotFoundError("book price", item.bookID.String())
		}
		subtotal, err := price.Multiply(item.quantity)
		if err != nil {
			return kernel.Price{}, err
		}
		total = total.Add(subtotal)
	}
	return total, nil
}

func (c *Cart) indexOf(bookID kernel.UUID) int {
	for i, item := range c.items {
		if item.bookID.IsEqual(bookID) {
			return i
		}
	}
	return -1
}

func (c *Cart) touch() {
	c.updatedAt = time.Now().UTC()
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	return nil
}

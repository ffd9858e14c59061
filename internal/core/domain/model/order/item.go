package order

import (
	"errors"
	"fmt"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"
)

// ErrItemIsNotConstructed is returned when an Item was not created through NewItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is one line of an order: a book, how many copies and the unit price
// captured when the order was placed. It has no identity outside its order.
type Item struct {
	bookID    kernel.UUID
	quantity  int
	unitPrice kernel.Price

	isConstructed bool
}

// NewItem creates an order line. Quantity must be at least 1.
func NewItem(bookID kernel.UUID, quantity int, unitPrice kernel.Price) (*Item, error) {
	item := &Item{
		unitPrice:     unitPrice,
		isConstructed: true,
	}

	if err := errors.Join(
		item.setBookID(bookID),
		item.setQuantity(quantity),
	); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate ensures the Item was built by NewItem.
func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// BookID returns the referenced book.
func (i *Item) BookID() kernel.UUID {
	return i.bookID
}

// Quantity returns the number of copies ordered.
func (i *Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the price captured at order time.
func (i *Item) UnitPrice() kernel.Price {
	return i.unitPrice
}

// Subtotal returns unit price times quantity.
func (i *Item) Subtotal() kernel.Price {
	subtotal, err := i.unitPrice.Multiply(i.quantity)
	if err != nil {
		// quantity is kept >= 1 by the setters
		return kernel.ZeroPrice()
	}
	return subtotal
}

func (i *Item) setBookID(bookID kernel.UUID) error {
	if err := bookID.Validate(); err != nil {
		return err
	}
	i.bookID = bookID
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid", fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

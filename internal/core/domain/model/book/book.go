// Package book provides the Book aggregate as seen by ordering: identity,
// catalogue data, price and stock.
package book

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"
)

const (
	maxTitleLength       = 255
	maxAuthorLength      = 255
	maxDescriptionLength = 2000
)

// ErrBookIsNotConstructed is returned when a Book was not created through NewBook or RestoreBook.
var ErrBookIsNotConstructed = errors.New("Book must be created via NewBook constructor")

// Book is a catalogue entry. Stock never goes below zero.
type Book struct {
	id          kernel.UUID
	title       string
	author      string
	isbn        ISBN
	description string
	price       kernel.Price
	stock       int
	categoryID  *kernel.UUID

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewBook creates a book. categoryID may be nil.
func NewBook(
	id kernel.UUID,
	title, author string,
	isbn ISBN,
	description string,
	price kernel.Price,
	stock int,
	categoryID *kernel.UUID,
) (*Book, error) {
	now := time.Now().UTC()
	return RestoreBook(id, title, author, isbn, description, price, stock, categoryID, now, now)
}

// RestoreBook rebuilds a book from persistence.
func RestoreBook(
	id kernel.UUID,
	title, author string,
	isbn ISBN,
	description string,
	price kernel.Price,
	stock int,
	categoryID *kernel.UUID,
	createdAt, updatedAt time.Time,
) (*Book, error) {
	b := &Book{
		price:         price,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		b.setID(id),
		b.setTitle(title),
		b.setAuthor(author),
		b.setISBN(isbn),
		b.setDescription(description),
		b.setStock(stock),
		b.setCategoryID(categoryID),
	); err != nil {
		return nil, err
	}

	return b, nil
}

// Validate ensures the Book instance was properly constructed.
func (b *Book) Validate() error {
	if b == nil || !b.isConstructed {
		return ErrBookIsNotConstructed
	}
	return nil
}

func (b *Book) ID() kernel.UUID { return b.id }
func (b *Book) Title() string { return b.title }
func (b *Book) Author() string { return b.author }
func (b *Book) ISBN() ISBN { return b.isbn }
func (b *Book) Description() string { return b.description }
func (b *Book) Price() kernel.Price { return b.price }
func (b *Book) Stock() int { return b.stock }
func (b *Book) CategoryID() *kernel.UUID { return b.categoryID }
func (b *Book) CreatedAt() time.Time { return b.createdAt }
func (b *Book) UpdatedAt() time.Time { return b.updatedAt }

// IsInStock reports whether at least one copy is available.
func (b *Book) IsInStock() bool {
	return b.stock > 0
}

// HasEnoughStock reports whether quantity copies are available.
func (b *Book) HasEnoughStock(quantity int) bool {
	return b.stock >= quantity
}

// DecreaseStock takes quantity copies out of stock. Requests beyond the
// available stock fail with a conflict and leave the book unchanged.
func (b *Book) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if !b.HasEnoughStock(quantity) {
		return errs.NewConflictError(
			fmt.Sprintf("insufficient stock for book %s: requested %d, available %d", b.id, quantity, b.stock))
	}
	b.stock -= quantity
	b.touch()
	return nil
}

// IncreaseStock puts quantity copies back into stock.
func (b *Book) IncreaseStock(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	b.stock += quantity
	b.touch()
	return nil
}

// UpdatePrice replaces the catalogue price. Orders keep the price they captured.
func (b *Book) UpdatePrice(price kernel.Price) {
	b.price = price
	b.touch()
}

// MoveToCategory assigns the book to a category, or removes it from one when nil.
func (b *Book) MoveToCategory(categoryID *kernel.UUID) error {
	if err := b.setCategoryID(categoryID); err != nil {
		return err
	}
	b.touch()
	return nil
}

func (b *Book) touch() {
	b.updatedAt = time.Now().UTC()
}

func (b *Book) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *Book) setTitle(title string) error {
	if err := validateText("title", title, maxTitleLength); err != nil {
		return err
	}
	b.title = title
	return nil
}

func (b *Book) setAuthor(author string) error {
	if err := validateText("author", author, maxAuthorLength); err != nil {
		return err
	}
	b.author = author
	return nil
}

func (b *Book) setISBN(isbn ISBN) error {
	if isbn.IsZero() {
		return errs.NewValueIsRequiredError("isbn")
	}
	b.isbn = isbn
	return nil
}

func (b *Book) setDescription(description string) error {
	if n := utf8.RuneCountInString(description); n > maxDescriptionLength {
		return errs.NewValueIsOutOfRangeError("description length", n, 0, maxDescriptionLength)
	}
	b.description = description
	return nil
}

func (b *Book) setStock(stock int) error {
	if stock < 0 {
		return errs.NewValueIsInvalidErrorWithCause("stock", fmt.Errorf("%d is negative", stock))
	}
	b.stock = stock
	return nil
}

func (b *Book) setCategoryID(categoryID *kernel.UUID) error {
	if categoryID != nil {
		if err := categoryID.Validate(); err != nil {
			return err
		}
	}
	b.categoryID = categoryID
	return nil
}

func validateText(name, value string, maxLength int) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewValueIsRequiredError(name)
	}
	if n := utf8.RuneCountInString(value); n > maxLength {
		return errs.NewValueIsOutOfRangeError(name+" length", n, 1, maxLength)
	}
	return nil
}

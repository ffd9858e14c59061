package order

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"
)

// MaxAddressLength is the maximum number of characters of a shipping or billing address.
const MaxAddressLength = 500

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderHasNoItems is returned when an order would end up without line items.
	ErrOrderHasNoItems = errs.NewValueIsRequiredError("order must contain at least one item")
)

// Order is the aggregate root of a purchase. It owns its line items exclusively
// and derives the total from them; the total is never stored.
//
// Order follows these invariants:
//   - Must have a valid identifier and owner
//   - Contains at least one item and at most one item per book
//   - Shipping and billing addresses are non-empty and at most 500 characters
//   - Status changes go through Status.TransitionTo
//   - Addresses change only while the order can be cancelled
//   - createdAt never changes; updatedAt moves on every mutation
type Order struct {
	id     kernel.UUID
	userID kernel.UUID
	status Status

	// items keeps insertion order
	items []*Item

	shippingAddress string
	billingAddress  string

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder creates a pending order.
//
// Example:
//
//	item, _ := order.NewItem(bookID, 2, book.Price())
//	o, err := order.NewOrder(kernel.NewUUID(), userID, []*order.Item{item}, "1 Main St", "1 Main St")
//	if err != nil {
//	    return err
//	}
func NewOrder(
	id kernel.UUID,
	userID kernel.UUID,
	items []*Item,
	shippingAddress string,
	billingAddress string,
) (*Order, error) {
	now := time.Now().UTC()
	return build(id, userID, Pending, items, shippingAddress, billingAddress, now, now)
}

// RestoreOrder rebuilds an order from persistence with its stored status and timestamps.
func RestoreOrder(
	id kernel.UUID,
	userID kernel.UUID,
	status Status,
	items []*Item,
	shippingAddress string,
	billingAddress string,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	return build(id, userID, status, items, shippingAddress, billingAddress, createdAt, updatedAt)
}

func build(
	id kernel.UUID,
	userID kernel.UUID,
	status Status,
	items []*Item,
	shippingAddress string,
	billingAddress string,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        status,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setUserID(userID),
		o.setItems(items),
		o.setShippingAddress(shippingAddress),
		o.setBillingAddress(billingAddress),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// UserID returns the purchaser.
func (o *Order) UserID() kernel.UUID {
	return o.userID
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Items returns a copy of the line items in insertion order.
func (o *Order) Items() []*Item {
	items := make([]*Item, len(o.items))
	copy(items, o.items)
	return items
}

// ShippingAddress returns the delivery address.
func (o *Order) ShippingAddress() string {
	return o.shippingAddress
}

// BillingAddress returns the invoice address.
func (o *Order) BillingAddress() string {
	return o.billingAddress
}

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns when the order last changed.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// TotalAmount returns the sum of the item subtotals.
func (o *Order) TotalAmount() kernel.Price {
	total := kernel.ZeroPrice()
	for _, item := range o.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// TotalItems returns the number of copies across all lines.
func (o *Order) TotalItems() int {
	total := 0
	for _, item := range o.items {
		total += item.Quantity()
	}
	return total
}

// CanBeCancelled reports whether the order is pending or confirmed.
func (o *Order) CanBeCancelled() bool { return o.status.CanBeCancelled() }

// CanBeShipped reports whether the order is confirmed or processing.
func (o *Order) CanBeShipped() bool { return o.status.CanBeShipped() }

// CanBeDelivered reports whether the order is shipped.
func (o *Order) CanBeDelivered() bool { return o.status.CanBeDelivered() }

// CanBeRefunded reports whether the order is delivered or shipped.
func (o *Order) CanBeRefunded() bool { return o.status.CanBeRefunded() }

// IsCompleted reports whether the order reached a final state.
func (o *Order) IsCompleted() bool { return o.status.IsCompleted() }

// IsActive reports whether the order has not reached a final state.
func (o *Order) IsActive() bool { return o.status.IsActive() }

// ChangeStatus moves the order to target after checking the transition rules.
// The order is left untouched when the transition is rejected.
func (o *Order) ChangeStatus(target Status) error {
	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}
	o.status = next
	o.touch()
	return nil
}

// UpdateShippingAddress replaces the shipping address while the order can still be cancelled.
func (o *Order) UpdateShippingAddress(address string) error {
	if err := o.ensureAddressEditable(); err != nil {
		return err
	}
	if err := o.setShippingAddress(address); err != nil {
		return err
	}
	o.touch()
	return nil
}

// UpdateBillingAddress replaces the billing address while the order can still be cancelled.
func (o *Order) UpdateBillingAddress(address string) error {
	if err := o.ensureAddressEditable(); err != nil {
		return err
	}
	if err := o.setBillingAddress(address); err != nil {
		return err
	}
	o.touch()
	return nil
}

// AddItem appends a line. A second line for the same book is rejected.
func (o *Order) AddItem(item *Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if o.indexOf(item.BookID()) >= 0 {
		return errs.NewValueIsInvalidErrorWithCause("item",
			fmt.Errorf("book %s already exists in order", item.BookID()))
	}
	o.items = append(o.items, item)
	o.touch()
	return nil
}

// UpdateItemQuantity replaces the quantity of the line for bookID, keeping its captured price.
func (o *Order) UpdateItemQuantity(bookID kernel.UUID, quantity int) error {
	idx := o.indexOf(bookID)
	if idx < 0 {
		return errs.NewObjectNotFoundError("book", bookID.String())
	}
	current := o.items[idx]
	updated, err := NewItem(current.BookID(), quantity, current.UnitPrice())
	if err != nil {
		return err
	}
	o.items[idx] = updated
	o.touch()
	return nil
}

// RemoveItem drops the line for bookID. Removing the last line is rejected.
func (o *Order) RemoveItem(bookID kernel.UUID) error {
	idx := o.indexOf(bookID)
	if idx < 0 {
		return errs.NewObjectNotFoundError("book", bookID.String())
	}
	if len(o.items) == 1 {
		return ErrOrderHasNoItems
	}
	o.items = append(o.items[:idx], o.items[idx+1:]...)
	o.touch()
	return nil
}

func (o *Order) ensureAddressEditable() error {
	if !o.CanBeCancelled() {
		return errs.NewConflictError(
			fmt.Sprintf("cannot change address of %s order", o.status))
	}
	return nil
}

func (o *Order) indexOf(bookID kernel.UUID) int {
	for i, item := range o.items {
		if item.BookID().IsEqual(bookID) {
			return i
		}
	}
	return -1
}

func (o *Order) touch() {
	o.updatedAt = time.Now().UTC()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("user", err)
	}
	o.userID = userID
	return nil
}

func (o *Order) setItems(items []*Item) error {
	if len(items) == 0 {
		return ErrOrderHasNoItems
	}
	seen := make(map[kernel.UUID]struct{}, len(items))
	list := make([]*Item, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if _, dup := seen[item.BookID()]; dup {
			return errs.NewValueIsInvalidErrorWithCause("item",
				fmt.Errorf("book %s already exists in order", item.BookID()))
		}
		seen[item.BookID()] = struct{}{}
		list = append(list, item)
	}
	o.items = list
	return nil
}

func (o *Order) setShippingAddress(address string) error {
	if err := validateAddress("shipping address", address); err != nil {
		return err
	}
	o.shippingAddress = address
	return nil
}

func (o *Order) setBillingAddress(address string) error {
	if err := validateAddress("billing address", address); err != nil {
		return err
	}
	o.billingAddress = address
	return nil
}

func validateAddress(name, address string) error {
	if strings.TrimSpace(address) == "" {
		return errs.NewValueIsRequiredError(name)
	}
	if n := utf8.RuneCountInString(address); n > MaxAddressLength {
		return errs.NewValueIsOutOfRangeError(name+" length", n, 1, MaxAddressLength)
	}
	return nil
}

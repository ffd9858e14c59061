package commands

import (
	"errors"
	"fmt"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"
	"bookstore/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// OrderLine is one requested book and quantity of a PlaceOrderCommand.
type OrderLine struct {
	BookID   kernel.UUID
	Quantity int
}

// PlaceOrderCommand represents a checkout request: the purchaser, the requested
// books and the addresses. Prices are not part of the request; they are read
// from the books at order time.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(kernel.NewUUID(), userID,
//	    []OrderLine{{BookID: bookID, Quantity: 2}},
//	    "221B Baker Street", "221B Baker Street")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	placed, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	userID          kernel.UUID
	lines           []OrderLine
	shippingAddress string
	billingAddress  string

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a checkout command. Every line needs a valid book id
// and a positive quantity, and a book may appear only once.
func NewPlaceOrderCommand(
	orderID, userID kernel.UUID,
	lines []OrderLine,
	shippingAddress, billingAddress string,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setUserID(userID),
		cmd.setLines(lines),
		cmd.setAddresses(shippingAddress, billingAddress),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c PlaceOrderCommand) UserID() kernel.UUID { return c.userID }
func (c PlaceOrderCommand) ShippingAddress() string { return c.shippingAddress }
func (c PlaceOrderCommand) BillingAddress() string { return c.billingAddress }

// Lines returns a copy of the requested lines in request order.
func (c PlaceOrderCommand) Lines() []OrderLine {
	lines := make([]OrderLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *PlaceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	c.userID = userID
	return nil
}

func (c *PlaceOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	seen := make(map[kernel.UUID]struct{}, len(lines))
	for i, line := range lines {
		if err := line.BookID.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if line.Quantity < 1 {
			return errs.NewValueIsOutOfRangeError("quantity", line.Quantity, 1, "unbounded")
		}
		if _, dup := seen[line.BookID]; dup {
			return errs.NewValueIsInvalidErrorWithCause("items",
				fmt.Errorf("book %s is requested more than once", line.BookID))
		}
		seen[line.BookID] = struct{}{}
	}

	c.lines = lines
	return nil
}

func (c *PlaceOrderCommand) setAddresses(shipping, billing string) error {
	var err error
	if shipping == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("shipping address"))
	}
	if billing == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("billing address"))
	}
	if err != nil {
		return err
	}

	c.shippingAddress, c.billingAddress = shipping, billing
	return nil
}

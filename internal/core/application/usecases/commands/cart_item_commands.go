package commands

import (
	"context"
	"errors"

	"bookstore/internal/core/domain/model/cart"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"
	"bookstore/internal/pkg/guard"
)

var (
	ErrUpdateCartItemCommandIsNotConstructed = errors.New(
		"UpdateCartItemCommand must be created via NewUpdateCartItemCommand constructor",
	)
	ErrRemoveFromCartCommandIsNotConstructed = errors.New(
		"RemoveFromCartCommand must be created via NewRemoveFromCartCommand constructor",
	)
	ErrClearCartCommandIsNotConstructed = errors.New(
		"ClearCartCommand must be created via NewClearCartCommand constructor",
	)
)

// UpdateCartItemCommand sets the quantity of a book already in the cart.
// A quantity of zero or less removes the book.
type UpdateCartItemCommand struct { //nolint:recvcheck //using for validation
	userID   kernel.UUID
	bookID   kernel.UUID
	quantity int

	guard guard.ConstructorGuard
}

func NewUpdateCartItemCommand(userID, bookID kernel.UUID, quantity int) (UpdateCartItemCommand, error) {
	if err := errors.Join(userID.Validate(), bookID.Validate()); err != nil {
		return UpdateCartItemCommand{}, err
	}
	return UpdateCartItemCommand{
		userID:   userID,
		bookID:   bookID,
		quantity: quantity,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateCartItemCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCartItemCommandIsNotConstructed)
}

func (c UpdateCartItemCommand) UserID() kernel.UUID { return c.userID }
func (c UpdateCartItemCommand) BookID() kernel.UUID { return c.bookID }
func (c UpdateCartItemCommand) Quantity() int { return c.quantity }

// RemoveFromCartCommand takes a book out of the cart.
type RemoveFromCartCommand struct { //nolint:recvcheck //using for validation
	userID kernel.UUID
	bookID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRemoveFromCartCommand(userID, bookID kernel.UUID) (RemoveFromCartCommand, error) {
	if err := errors.Join(userID.Validate(), bookID.Validate()); err != nil {
		return RemoveFromCartCommand{}, err
	}
	return RemoveFromCartCommand{userID: userID, bookID: bookID, guard: guard.NewConstructorGuard()}, nil
}

func (c RemoveFromCartCommand) Validate() error {
	return c.guard.Validate(ErrRemoveFromCartCommandIsNotConstructed)
}

func (c RemoveFromCartCommand) UserID() kernel.UUID { return c.userID }
func (c RemoveFromCartCommand) BookID() kernel.UUID { return c.bookID }

// ClearCartCommand empties the user's cart.
type ClearCartCommand struct { //nolint:recvcheck //using for validation
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewClearCartCommand(userID kernel.UUID) (ClearCartCommand, error) {
	if err := userID.Validate(); err != nil {
		return ClearCartCommand{}, err
	}
	return ClearCartCommand{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (c ClearCartCommand) Validate() error {
	return c.guard.Validate(ErrClearCartCommandIsNotConstructed)
}

func (c ClearCartCommand) UserID() kernel.UUID { return c.userID }

// CartItemCommandHandler handles the cart commands that work on an existing cart.
type CartItemCommandHandler struct {
	uowFactory CartUoWFactory
}

func NewCartItemCommandHandler(uowFactory CartUoWFactory) CartItemCommandHandler {
	return CartItemCommandHandler{
		uowFactory: uowFactory,
	}
}

// HandleUpdate changes a quantity. Raising it is checked against the book's stock.
func (h *CartItemCommandHandler) HandleUpdate(ctx context.Context, cmd UpdateCartItemCommand) (*cart.Cart, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.modify(ctx, cmd.UserID(), func(ctx context.Context, uow CartUoW, userCart *cart.Cart) error {
		if cmd.Quantity() > 0 {
			bookRepo, err := uow.BookRepository()
			if err != nil {
				return err
			}
			b, err := bookRepo.Get(ctx, cmd.BookID())
			if err != nil {
				return err
			}
			if err = ensureStock(b, cmd.Quantity()); err != nil {
				return err
			}
		}
		return userCart.UpdateItemQuantity(cmd.BookID(), cmd.Quantity())
	})
}

// HandleRemove removes a book; a book that is not in the cart is a NotFound error.
func (h *CartItemCommandHandler) HandleRemove(ctx context.Context, cmd RemoveFromCartCommand) (*cart.Cart, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.modify(ctx, cmd.UserID(), func(_ context.Context, _ CartUoW, userCart *cart.Cart) error {
		return userCart.RemoveItem(cmd.BookID())
	})
}

// HandleClear empties the cart. Users without a cart, or with an empty one, are left as they are.
func (h *CartItemCommandHandler) HandleClear(ctx context.Context, cmd ClearCartCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cartRepo, err := uow.CartRepository()
	if err != nil {
		return err
	}

	userCart, err := cartRepo.GetByUser(ctx, cmd.UserID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err = cartRepo.Clear(ctx, userCart.ID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *CartItemCommandHandler) modify(
	ctx context.Context,
	userID kernel.UUID,
	change func(ctx context.Context, uow CartUoW, userCart *cart.Cart) error,
) (*cart.Cart, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cartRepo, err := uow.CartRepository()
	if err != nil {
		return nil, err
	}

	userCart, err := cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err = change(ctx, uow, userCart); err != nil {
		return nil, err
	}
	if err = cartRepo.Save(ctx, userCart); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return userCart, nil
}

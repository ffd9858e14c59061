package commands

import (
	"context"
	"errors"
	"fmt"

	"bookstore/internal/core/domain/model/book"
	"bookstore/internal/core/domain/model/cart"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"
)

// AddToCartCommandHandler adds books to carts. The book must exist and have
// enough stock for the resulting cart quantity; stock itself is only taken at checkout.
type AddToCartCommandHandler struct {
	uowFactory CartUoWFactory
}

func NewAddToCartCommandHandler(uowFactory CartUoWFactory) AddToCartCommandHandler {
	return AddToCartCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the cart as saved.
func (h *AddToCartCommandHandler) Handle(ctx context.Context, cmd AddToCartCommand) (*cart.Cart, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	bookRepo, err := uow.BookRepository()
	if err != nil {
		return nil, err
	}
	cartRepo, err := uow.CartRepository()
	if err != nil {
		return nil, err
	}

	b, err := bookRepo.Get(ctx, cmd.BookID())
	if err != nil {
		return nil, err
	}
	if !b.IsInStock() {
		return nil, errs.NewConflictError(fmt.Sprintf("book %s is out of stock", b.ID()))
	}

	userCart, err := loadOrCreateCart(ctx, cartRepo, cmd.UserID())
	if err != nil {
		return nil, err
	}

	wanted := cmd.Quantity()
	if existing, ok := userCart.Item(b.ID()); ok {
		wanted += existing.Quantity()
	}
	if err = ensureStock(b, wanted); err != nil {
		return nil, err
	}

	if err = userCart.AddItem(b.ID(), cmd.Quantity()); err != nil {
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

func loadOrCreateCart(ctx context.Context, cartRepo ports.CartRepository, userID kernel.UUID) (*cart.Cart, error) {
	userCart, err := cartRepo.GetByUser(ctx, userID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return cart.NewCart(kernel.NewUUID(), userID)
	}
	return userCart, err
}

func ensureStock(b *book.Book, quantity int) error {
	if !b.HasEnoughStock(quantity) {
		return errs.NewConflictError(fmt.Sprintf("insufficient stock for book %s: requested %d, available %d",
			b.ID(), quantity, b.Stock()))
	}
	return nil
}

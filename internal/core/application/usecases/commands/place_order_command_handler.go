package commands

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"bookstore/internal/core/domain/model/book"
	"bookstore/internal/core/domain/model/order"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"
)

// PlaceOrderCommandHandler turns a checkout request into a persisted order.
// Stock check, stock decrement, order insert and cart clear run in one
// serializable scope: either all of them are visible afterwards or none is.
//
// Example:
//
//	handler := NewPlaceOrderCommandHandler(uowFactory, notifier, logger, 3)
//	placed, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrConflict) {
//	    // not enough stock
//	}
type PlaceOrderCommandHandler struct {
	uowFactory PlaceOrderUoWFactory
	notifier   ports.Notifier
	logger     *slog.Logger
	attempts   int
}

// NewPlaceOrderCommandHandler creates a checkout handler. attempts bounds how often
// the whole scope is re-run after a serialization conflict; 1 disables retrying.
func NewPlaceOrderCommandHandler(
	uowFactory PlaceOrderUoWFactory,
	notifier ports.Notifier,
	logger *slog.Logger,
	attempts int,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger,
		attempts:   attempts,
	}
}

// Handle places the order and returns it as read back from the store.
// An order.created event is published once the scope has committed.
func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var placed *order.Order
	err := RetryOnConflict(ctx, h.attempts, func() error {
		var placeErr error
		placed, placeErr = h.place(ctx, cmd)
		return placeErr
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, h.notifier, h.logger, ports.Event{
		Name:        ports.EventOrderCreated,
		AggregateID: placed.ID(),
		OccurredAt:  time.Now().UTC(),
		Payload: map[string]string{
			"user_id":      placed.UserID().String(),
			"total_amount": placed.TotalAmount().Amount().StringFixed(2),
			"total_items":  strconv.Itoa(placed.TotalItems()),
		},
	})

	return placed, nil
}

func (h *PlaceOrderCommandHandler) place(ctx context.Context, cmd PlaceOrderCommand) (*order.Order, error) {
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
	orderRepo, err := uow.OrderRepository()
	if err != nil {
		return nil, err
	}
	cartRepo, err := uow.CartRepository()
	if err != nil {
		return nil, err
	}

	lines := cmd.Lines()
	books, items, err := h.reserve(ctx, bookRepo, lines)
	if err != nil {
		return nil, err
	}

	newOrder, err := order.NewOrder(cmd.OrderID(), cmd.UserID(), items, cmd.ShippingAddress(), cmd.BillingAddress())
	if err != nil {
		return nil, err
	}

	for i, b := range books {
		if err = b.DecreaseStock(lines[i].Quantity); err != nil {
			return nil, err
		}
		if err = bookRepo.UpdateStock(ctx, b.ID(), b.Stock()); err != nil {
			return nil, err
		}
	}

	if err = orderRepo.Add(ctx, newOrder); err != nil {
		return nil, err
	}

	if err = h.clearCart(ctx, cartRepo, cmd); err != nil {
		return nil, err
	}

	persisted, err := orderRepo.Get(ctx, newOrder.ID())
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return persisted, nil
}

// reserve loads every requested book, checks its stock and captures its current
// price as the order's unit price.
func (h *PlaceOrderCommandHandler) reserve(
	ctx context.Context,
	bookRepo ports.BookRepository,
	lines []OrderLine,
) ([]*book.Book, []*order.Item, error) {
	books := make([]*book.Book, 0, len(lines))
	items := make([]*order.Item, 0, len(lines))

	for _, line := range lines {
		b, err := bookRepo.Get(ctx, line.BookID)
		if err != nil {
			return nil, nil, err
		}
		if err = ensureStock(b, line.Quantity); err != nil {
			return nil, nil, err
		}

		item, err := order.NewItem(b.ID(), line.Quantity, b.Price())
		if err != nil {
			return nil, nil, err
		}

		books = append(books, b)
		items = append(items, item)
	}

	return books, items, nil
}

// clearCart empties the purchaser's cart. Checkout without a cart is valid.
func (h *PlaceOrderCommandHandler) clearCart(
	ctx context.Context,
	cartRepo ports.CartRepository,
	cmd PlaceOrderCommand,
) error {
	userCart, err := cartRepo.GetByUser(ctx, cmd.UserID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return cartRepo.Clear(ctx, userCart.ID())
}

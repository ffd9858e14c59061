package commands_test

import (
	"errors"
	"testing"

	"bookstore/internal/core/application/usecases/commands"
	"bookstore/internal/core/domain/model/book"
	"bookstore/internal/core/domain/model/cart"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/domain/model/order"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type placeOrderFixture struct {
	book    *book.Book
	cmd     commands.PlaceOrderCommand
	placed  *order.Order
	books   *MockBookRepository
	orders  *MockOrderRepository
	carts   *MockCartRepository
	uow     *MockUoW
	factory *MockPlaceOrderUoWFactory
}

func newPlaceOrderFixture(t *testing.T, stock, quantity int) *placeOrderFixture {
	t.Helper()

	b := newTestBook(t, "12.50", stock)
	userID := kernel.NewUUID()
	cmd, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), userID,
		[]commands.OrderLine{{BookID: b.ID(), Quantity: quantity}}, "1 Main St", "2 Side St")
	require.NoError(t, err)

	item, err := order.NewItem(b.ID(), quantity, b.Price())
	require.NoError(t, err)
	placed, err := order.NewOrder(cmd.OrderID(), userID, []*order.Item{item}, "1 Main St", "2 Side St")
	require.NoError(t, err)

	f := &placeOrderFixture{
		book:    b,
		cmd:     cmd,
		placed:  placed,
		books:   new(MockBookRepository),
		orders:  new(MockOrderRepository),
		carts:   new(MockCartRepository),
		uow:     new(MockUoW),
		factory: new(MockPlaceOrderUoWFactory),
	}
	f.factory.On("Create").Return(f.uow)
	return f
}

func (f *placeOrderFixture) expectScope(t *testing.T) {
	ctx := t.Context()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("BookRepository").Return(f.books, nil).Once()
	f.uow.On("OrderRepository").Return(f.orders, nil).Once()
	f.uow.On("CartRepository").Return(f.carts, nil).Once()
}

func (f *placeOrderFixture) assertExpectations(t *testing.T) {
	f.books.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.carts.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.factory.AssertExpectations(t)
}

func TestPlaceOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	f := newPlaceOrderFixture(t, 5, 2)
	userCart, err := cart.NewCart(kernel.NewUUID(), f.cmd.UserID())
	require.NoError(t, err)

	notifier := new(MockNotifier)
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("BookRepository").Return(f.books, nil).Once(),
		f.uow.On("OrderRepository").Return(f.orders, nil).Once(),
		f.uow.On("CartRepository").Return(f.carts, nil).Once(),
		f.books.On("Get", mock.Anything, f.book.ID()).Return(f.book, nil).Once(),
		f.books.On("UpdateStock", mock.Anything, f.book.ID(), 3).Return(nil).Once(),
		f.orders.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		f.carts.On("GetByUser", mock.Anything, f.cmd.UserID()).Return(userCart, nil).Once(),
		f.carts.On("Clear", mock.Anything, userCart.ID()).Return(nil).Once(),
		f.orders.On("Get", mock.Anything, f.cmd.OrderID()).Return(f.placed, nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(errs.ErrNoActiveTransaction).Once(),
		notifier.On("Notify", ctx, mock.MatchedBy(func(e ports.Event) bool {
			return e.Name == ports.EventOrderCreated &&
				e.AggregateID == f.cmd.OrderID() &&
				e.Payload["total_amount"] == "25.00"
		})).Return(nil).Once(),
	)

	h := commands.NewPlaceOrderCommandHandler(f.factory, notifier, nil, 1)
	placed, err := h.Handle(ctx, f.cmd)

	require.NoError(t, err)
	assert.Same(t, f.placed, placed)
	assert.Equal(t, order.Pending, placed.Status())
	f.assertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestPlaceOrderCommandHandler_Handle_CapturesCurrentPrice(t *testing.T) {
	ctx := t.Context()
	f := newPlaceOrderFixture(t, 5, 1)
	f.expectScope(t)

	var added *order.Order
	f.books.On("Get", mock.Anything, f.book.ID()).Return(f.book, nil).Once()
	f.books.On("UpdateStock", mock.Anything, f.book.ID(), 4).Return(nil).Once()
	f.orders.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { added = args.Get(1).(*order.Order) }).
		Return(nil).Once()
	f.carts.On("GetByUser", mock.Anything, f.cmd.UserID()).
		Return(nil, errs.NewObjectNotFoundError("cart", f.cmd.UserID())).Once()
	f.orders.On("Get", mock.Anything, f.cmd.OrderID()).Return(f.placed, nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewPlaceOrderCommandHandler(f.factory, nil, nil, 1)
	_, err := h.Handle(ctx, f.cmd)

	require.NoError(t, err)
	require.NotNil(t, added)
	require.Len(t, added.Items(), 1)
	assert.True(t, added.Items()[0].UnitPrice().IsEqual(f.book.Price()))
	assert.Equal(t, "$12.50", added.TotalAmount().String())
	f.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestPlaceOrderCommandHandler_Handle_InsufficientStock(t *testing.T) {
	ctx := t.Context()
	f := newPlaceOrderFixture(t, 1, 2)
	f.expectScope(t)
	f.books.On("Get", mock.Anything, f.book.ID()).Return(f.book, nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	notifier := new(MockNotifier)
	h := commands.NewPlaceOrderCommandHandler(f.factory, notifier, nil, 3)
	_, err := h.Handle(ctx, f.cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Contains(t, err.Error(), "insufficient stock")
	f.books.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.factory.AssertNumberOfCalls(t, "Create", 1)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestPlaceOrderCommandHandler_Handle_UnknownBook(t *testing.T) {
	ctx := t.Context()
	f := newPlaceOrderFixture(t, 5, 1)
	f.expectScope(t)
	f.books.On("Get", mock.Anything, f.book.ID()).
		Return(nil, errs.NewObjectNotFoundError("book", f.book.ID())).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewPlaceOrderCommandHandler(f.factory, nil, nil, 1)
	_, err := h.Handle(ctx, f.cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	f.assertExpectations(t)
}

func TestPlaceOrderCommandHandler_Handle_CartClearFailureRollsBack(t *testing.T) {
	ctx := t.Context()
	f := newPlaceOrderFixture(t, 5, 2)
	userCart, err := cart.NewCart(kernel.NewUUID(), f.cmd.UserID())
	require.NoError(t, err)
	clearErr := errors.New("clear failed")

	f.expectScope(t)
	f.books.On("Get", mock.Anything, f.book.ID()).Return(f.book, nil).Once()
	f.books.On("UpdateStock", mock.Anything, f.book.ID(), 3).Return(nil).Once()
	f.orders.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	f.carts.On("GetByUser", mock.Anything, f.cmd.UserID()).Return(userCart, nil).Once()
	f.carts.On("Clear", mock.Anything, userCart.ID()).Return(clearErr).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewPlaceOrderCommandHandler(f.factory, nil, nil, 1)
	_, err = h.Handle(ctx, f.cmd)

	require.ErrorIs(t, err, clearErr)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.assertExpectations(t)
}

func TestPlaceOrderCommandHandler_Handle_RetriesSerializationConflict(t *testing.T) {
	ctx := t.Context()
	f := newPlaceOrderFixture(t, 5, 2)
	conflict := errs.NewTransactionConflictError(errors.New("could not serialize access"))

	f.uow.On("Begin", ctx).Return(nil).Twice()
	f.uow.On("BookRepository").Return(f.books, nil).Twice()
	f.uow.On("OrderRepository").Return(f.orders, nil).Twice()
	f.uow.On("CartRepository").Return(f.carts, nil).Twice()
	f.books.On("Get", mock.Anything, f.book.ID()).Return(f.book, nil).Once()
	f.books.On("UpdateStock", mock.Anything, f.book.ID(), 3).Return(nil).Once()
	f.orders.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	f.carts.On("GetByUser", mock.Anything, f.cmd.UserID()).
		Return(nil, errs.NewObjectNotFoundError("cart", f.cmd.UserID())).Once()
	f.orders.On("Get", mock.Anything, f.cmd.OrderID()).Return(f.placed, nil).Once()
	f.uow.On("Commit", ctx).Return(conflict).Once()
	f.uow.On("Rollback", ctx).Return(nil).Twice()

	// second attempt: another order took the stock meanwhile
	soldOut := newTestBook(t, "12.50", 0)
	f.books.On("Get", mock.Anything, f.book.ID()).Return(soldOut, nil).Once()

	h := commands.NewPlaceOrderCommandHandler(f.factory, nil, nil, 3)
	_, err := h.Handle(ctx, f.cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Contains(t, err.Error(), "insufficient stock")
	f.factory.AssertNumberOfCalls(t, "Create", 2)
	f.assertExpectations(t)
}

func TestPlaceOrderCommandHandler_Handle_NotifierFailureDoesNotFailOrder(t *testing.T) {
	ctx := t.Context()
	f := newPlaceOrderFixture(t, 5, 1)
	f.expectScope(t)
	f.books.On("Get", mock.Anything, f.book.ID()).Return(f.book, nil).Once()
	f.books.On("UpdateStock", mock.Anything, f.book.ID(), 4).Return(nil).Once()
	f.orders.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	f.carts.On("GetByUser", mock.Anything, f.cmd.UserID()).
		Return(nil, errs.NewObjectNotFoundError("cart", f.cmd.UserID())).Once()
	f.orders.On("Get", mock.Anything, f.cmd.OrderID()).Return(f.placed, nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, mock.Anything).Return(errors.New("broker down")).Once()

	h := commands.NewPlaceOrderCommandHandler(f.factory, notifier, nil, 1)
	placed, err := h.Handle(ctx, f.cmd)

	require.NoError(t, err)
	assert.NotNil(t, placed)
	notifier.AssertExpectations(t)
}

func TestPlaceOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	f := newPlaceOrderFixture(t, 5, 1)
	f.uow.On("Begin", ctx).Return(errs.NewTransactionError("connection refused")).Once()

	h := commands.NewPlaceOrderCommandHandler(f.factory, nil, nil, 1)
	_, err := h.Handle(ctx, f.cmd)

	require.ErrorIs(t, err, errs.ErrTransactionFailed)
	f.uow.AssertNotCalled(t, "Rollback", mock.Anything)
}

func TestPlaceOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockPlaceOrderUoWFactory)
	h := commands.NewPlaceOrderCommandHandler(factory, nil, nil, 1)

	_, err := h.Handle(t.Context(), commands.PlaceOrderCommand{})

	require.ErrorIs(t, err, commands.ErrPlaceOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func newTestBook(t *testing.T, price string, stock int) *book.Book {
	t.Helper()

	isbn, err := book.NewISBN("9780306406157")
	require.NoError(t, err)
	p, err := kernel.ParsePrice(price)
	require.NoError(t, err)

	b, err := book.NewBook(kernel.NewUUID(), "Refactoring", "Fowler", isbn, "", p, stock, nil)
	require.NoError(t, err)
	return b
}

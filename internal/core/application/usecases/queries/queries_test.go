package queries_test

import (
	"testing"
	"time"

	"bookstore/internal/core/application/usecases/queries"
	"bookstore/internal/core/domain/model/book"
	"bookstore/internal/core/domain/model/cart"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/domain/model/order"
	"bookstore/internal/core/domain/services"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestBook(t *testing.T, price string) *book.Book {
	t.Helper()

	isbn, err := book.NewISBN("9780306406157")
	require.NoError(t, err)
	p, err := kernel.ParsePrice(price)
	require.NoError(t, err)

	b, err := book.NewBook(kernel.NewUUID(), "Dune", "Herbert", isbn, "", p, 10, nil)
	require.NoError(t, err)
	return b
}

func TestNewGetUserOrdersQuery(t *testing.T) {
	userID := kernel.NewUUID()

	t.Run("defaults the limit", func(t *testing.T) {
		query, err := queries.NewGetUserOrdersQuery(userID, ports.OrderFilter{})
		require.NoError(t, err)
		assert.Equal(t, ports.DefaultOrderListLimit, query.Filter().Limit)
	})

	t.Run("rejects bad filters", func(t *testing.T) {
		unknown := order.Unknown
		now := time.Now()
		earlier := now.Add(-time.Hour)

		for name, filter := range map[string]ports.OrderFilter{
			"negative limit":  {Limit: -1},
			"limit too large": {Limit: queries.MaxOrderListLimit + 1},
			"negative offset": {Offset: -5},
			"unknown status":  {Status: &unknown},
			"inverted range":  {From: &now, To: &earlier},
		} {
			_, err := queries.NewGetUserOrdersQuery(userID, filter)
			assert.True(t, errs.IsValidation(err), name)
		}
	})

	t.Run("zero user id", func(t *testing.T) {
		_, err := queries.NewGetUserOrdersQuery(kernel.UUID{}, ports.OrderFilter{})
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("zero value", func(t *testing.T) {
		require.ErrorIs(t, queries.GetUserOrdersQuery{}.Validate(), queries.ErrGetUserOrdersQueryIsNotConstructed)
	})
}

func TestGetOrderQueryHandler_Handle(t *testing.T) {
	ownerID := kernel.NewUUID()
	item, err := order.NewItem(kernel.NewUUID(), 1, kernel.ZeroPrice())
	require.NoError(t, err)
	stored, err := order.NewOrder(kernel.NewUUID(), ownerID, []*order.Item{item}, "a", "b")
	require.NoError(t, err)

	t.Run("owner reads the order", func(t *testing.T) {
		orders := new(mockOrderRepository)
		orders.On("Get", mock.Anything, stored.ID()).Return(stored, nil).Once()

		query, err := queries.NewGetOrderQuery(stored.ID(), &ownerID)
		require.NoError(t, err)

		found, err := queries.NewGetOrderQueryHandler(&mockRepositories{orders: orders}).Handle(t.Context(), query)
		require.NoError(t, err)
		assert.Same(t, stored, found)
	})

	t.Run("someone else gets not found", func(t *testing.T) {
		orders := new(mockOrderRepository)
		orders.On("Get", mock.Anything, stored.ID()).Return(stored, nil).Once()

		stranger := kernel.NewUUID()
		query, err := queries.NewGetOrderQuery(stored.ID(), &stranger)
		require.NoError(t, err)

		_, err = queries.NewGetOrderQueryHandler(&mockRepositories{orders: orders}).Handle(t.Context(), query)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("missing order", func(t *testing.T) {
		orders := new(mockOrderRepository)
		missing := kernel.NewUUID()
		orders.On("Get", mock.Anything, missing).Return(nil, errs.NewObjectNotFoundError("order", missing)).Once()

		query, err := queries.NewGetOrderQuery(missing, nil)
		require.NoError(t, err)

		_, err = queries.NewGetOrderQueryHandler(&mockRepositories{orders: orders}).Handle(t.Context(), query)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestGetCartSummaryQueryHandler_Handle(t *testing.T) {
	pricing := services.NewBulkDiscountPricing()

	t.Run("no cart yet", func(t *testing.T) {
		userID := kernel.NewUUID()
		carts := new(mockCartRepository)
		books := new(mockBookRepository)
		carts.On("GetByUser", mock.Anything, userID).Return(nil, errs.NewObjectNotFoundError("cart", userID)).Once()

		query, err := queries.NewGetCartSummaryQuery(userID)
		require.NoError(t, err)

		handler := queries.NewGetCartSummaryQueryHandler(&mockRepositories{carts: carts, books: books}, pricing)
		summary, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Zero(t, summary.TotalItems)
		assert.True(t, summary.EstimatedTotal.IsEqual(kernel.ZeroPrice()))
		books.AssertNotCalled(t, "GetMany", mock.Anything, mock.Anything)
	})

	t.Run("prices the cart with bulk discount", func(t *testing.T) {
		userID := kernel.NewUUID()
		paperback := newTestBook(t, "8.00")
		hardcover := newTestBook(t, "25.00")

		userCart, err := cart.NewCart(kernel.NewUUID(), userID)
		require.NoError(t, err)
		require.NoError(t, userCart.AddItem(paperback.ID(), 5))
		require.NoError(t, userCart.AddItem(hardcover.ID(), 1))

		carts := new(mockCartRepository)
		books := new(mockBookRepository)
		carts.On("GetByUser", mock.Anything, userID).Return(userCart, nil).Once()
		books.On("GetMany", mock.Anything, []kernel.UUID{paperback.ID(), hardcover.ID()}).
			Return([]*book.Book{hardcover, paperback}, nil).Once()

		query, err := queries.NewGetCartSummaryQuery(userID)
		require.NoError(t, err)

		handler := queries.NewGetCartSummaryQueryHandler(&mockRepositories{carts: carts, books: books}, pricing)
		summary, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Equal(t, 6, summary.TotalItems)
		assert.Equal(t, 2, summary.UniqueItems)
		assert.Equal(t, "$61.00", summary.EstimatedTotal.String())
	})

	t.Run("book removed from catalogue", func(t *testing.T) {
		userID := kernel.NewUUID()
		userCart, err := cart.NewCart(kernel.NewUUID(), userID)
		require.NoError(t, err)
		require.NoError(t, userCart.AddItem(kernel.NewUUID(), 1))

		carts := new(mockCartRepository)
		books := new(mockBookRepository)
		carts.On("GetByUser", mock.Anything, userID).Return(userCart, nil).Once()
		books.On("GetMany", mock.Anything, mock.Anything).Return([]*book.Book{}, nil).Once()

		query, err := queries.NewGetCartSummaryQuery(userID)
		require.NoError(t, err)

		handler := queries.NewGetCartSummaryQueryHandler(&mockRepositories{carts: carts, books: books}, pricing)
		_, err = handler.Handle(t.Context(), query)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

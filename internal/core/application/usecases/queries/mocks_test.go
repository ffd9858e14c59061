package queries_test

import (
	"context"

	"bookstore/internal/core/domain/model/book"
	"bookstore/internal/core/domain/model/cart"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/domain/model/order"
	"bookstore/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type mockAggregateTracker struct{}

func (m *mockAggregateTracker) TrackAggregate(kernel.UUID, any) {}

// mockRepositories serves the three repositories the queries read from.
// The remaining accessors are never used by queries.
type mockRepositories struct {
	orders *mockOrderRepository
	carts  *mockCartRepository
	books  *mockBookRepository
}

func (m *mockRepositories) BookRepository() (ports.BookRepository, error)   { return m.books, nil }
func (m *mockRepositories) OrderRepository() (ports.OrderRepository, error) { return m.orders, nil }
func (m *mockRepositories) CartRepository() (ports.CartRepository, error)   { return m.carts, nil }
func (m *mockRepositories) UserRepository() (ports.UserRepository, error)   { return nil, nil }
func (m *mockRepositories) CategoryRepository() (ports.CategoryRepository, error) {
	return nil, nil
}
func (m *mockRepositories) ReviewRepository() (ports.ReviewRepository, error) { return nil, nil }

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	return m.Called(ctx, aggregate).Error(0)
}

func (m *mockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	return m.Called(ctx, aggregate).Error(0)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id kernel.UUID, status order.Status) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepository) FindByUser(
	ctx context.Context,
	userID kernel.UUID,
	filter ports.OrderFilter,
) ([]*order.Order, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *mockOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) GetByUser(ctx context.Context, userID kernel.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *mockCartRepository) Save(ctx context.Context, aggregate *cart.Cart) error {
	return m.Called(ctx, aggregate).Error(0)
}

func (m *mockCartRepository) Clear(ctx context.Context, cartID kernel.UUID) error {
	return m.Called(ctx, cartID).Error(0)
}

func (m *mockCartRepository) Delete(ctx context.Context, cartID kernel.UUID) error {
	return m.Called(ctx, cartID).Error(0)
}

type mockBookRepository struct {
	mock.Mock
}

func (m *mockBookRepository) Add(ctx context.Context, aggregate *book.Book) error {
	return m.Called(ctx, aggregate).Error(0)
}

func (m *mockBookRepository) Update(ctx context.Context, aggregate *book.Book) error {
	return m.Called(ctx, aggregate).Error(0)
}

func (m *mockBookRepository) Get(ctx context.Context, id kernel.UUID) (*book.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*book.Book), args.Error(1)
}

func (m *mockBookRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*book.Book, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*book.Book), args.Error(1)
}

func (m *mockBookRepository) FindByCategory(ctx context.Context, categoryID kernel.UUID) ([]*book.Book, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*book.Book), args.Error(1)
}

func (m *mockBookRepository) UpdateStock(ctx context.Context, id kernel.UUID, newQuantity int) error {
	return m.Called(ctx, id, newQuantity).Error(0)
}

func (m *mockBookRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

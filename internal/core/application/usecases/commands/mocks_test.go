package commands_test

import (
	"context"

	"bookstore/internal/core/application/usecases/commands"
	"bookstore/internal/core/domain/model/book"
	"bookstore/internal/core/domain/model/cart"
	"bookstore/internal/core/domain/model/category"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/domain/model/order"
	"bookstore/internal/core/domain/model/review"
	"bookstore/internal/core/domain/model/user"
	"bookstore/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockBookRepository struct{ mock.Mock }

func (m *MockBookRepository) Add(ctx context.Context, b *book.Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookRepository) Update(ctx context.Context, b *book.Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookRepository) Get(ctx context.Context, id kernel.UUID) (*book.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*book.Book), args.Error(1)
}

func (m *MockBookRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*book.Book, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*book.Book), args.Error(1)
}

func (m *MockBookRepository) FindByCategory(ctx context.Context, categoryID kernel.UUID) ([]*book.Book, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]*book.Book), args.Error(1)
}

func (m *MockBookRepository) UpdateStock(ctx context.Context, id kernel.UUID, newQuantity int) error {
	return m.Called(ctx, id, newQuantity).Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id kernel.UUID, status order.Status) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(
	ctx context.Context,
	userID kernel.UUID,
	filter ports.OrderFilter,
) ([]*order.Order, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockCartRepository struct{ mock.Mock }

func (m *MockCartRepository) GetByUser(ctx context.Context, userID kernel.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, cartID kernel.UUID) error {
	return m.Called(ctx, cartID).Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, cartID kernel.UUID) error {
	return m.Called(ctx, cartID).Error(0)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Add(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockCategoryRepository struct{ mock.Mock }

func (m *MockCategoryRepository) Add(ctx context.Context, c *category.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *category.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) Get(ctx context.Context, id kernel.UUID) (*category.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByParent(ctx context.Context, parentID *kernel.UUID) ([]*category.Category, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).([]*category.Category), args.Error(1)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockReviewRepository struct{ mock.Mock }

func (m *MockReviewRepository) Add(ctx context.Context, r *review.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReviewRepository) Update(ctx context.Context, r *review.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReviewRepository) Get(ctx context.Context, id kernel.UUID) (*review.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByBook(ctx context.Context, bookID kernel.UUID) ([]*review.Review, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).([]*review.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByUserAndBook(ctx context.Context, userID, bookID kernel.UUID) (*review.Review, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockRepositories serves as a transaction scope in callback mode and, with
// TxManager methods, as an explicit unit of work.
type MockRepositories struct{ mock.Mock }

func (m *MockRepositories) BookRepository() (ports.BookRepository, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.BookRepository), args.Error(1)
}

func (m *MockRepositories) OrderRepository() (ports.OrderRepository, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.OrderRepository), args.Error(1)
}

func (m *MockRepositories) CartRepository() (ports.CartRepository, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.CartRepository), args.Error(1)
}

func (m *MockRepositories) UserRepository() (ports.UserRepository, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.UserRepository), args.Error(1)
}

func (m *MockRepositories) CategoryRepository() (ports.CategoryRepository, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.CategoryRepository), args.Error(1)
}

func (m *MockRepositories) ReviewRepository() (ports.ReviewRepository, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.ReviewRepository), args.Error(1)
}

type MockUoW struct{ MockRepositories }

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockPlaceOrderUoWFactory struct{ mock.Mock }

func (m *MockPlaceOrderUoWFactory) Create() commands.PlaceOrderUoW {
	return m.Called().Get(0).(commands.PlaceOrderUoW)
}

type MockCartUoWFactory struct{ mock.Mock }

func (m *MockCartUoWFactory) Create() commands.CartUoW {
	return m.Called().Get(0).(commands.CartUoW)
}

type MockReviewUoWFactory struct{ mock.Mock }

func (m *MockReviewUoWFactory) Create() commands.ReviewUoW {
	return m.Called().Get(0).(commands.ReviewUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, event ports.Event) error {
	return m.Called(ctx, event).Error(0)
}

type MockCacheInvalidator struct{ mock.Mock }

func (m *MockCacheInvalidator) InvalidateAggregates(ctx context.Context, tracked []ports.TrackedAggregate) error {
	return m.Called(ctx, tracked).Error(0)
}

func (m *MockCacheInvalidator) InvalidatePattern(ctx context.Context, pattern string) error {
	return m.Called(ctx, pattern).Error(0)
}

// inlineTransactor runs work directly on scope and returns its error unchanged,
// the way the real coordinator treats business errors.
type inlineTransactor struct {
	scope ports.Repositories
	runs  int
}

func (t *inlineTransactor) RunAtomically(ctx context.Context, work ports.Work) error {
	t.runs++
	return work(ctx, t.scope)
}

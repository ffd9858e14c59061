package queries_test

import (
	"context"
	"testing"
	"time"

	"bookstore/internal/adapters/out/postgres"
	"bookstore/internal/adapters/out/postgres/orderrepo"
	"bookstore/internal/adapters/out/postgres/userrepo"
	"bookstore/internal/core/application/usecases/queries"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/domain/model/order"
	"bookstore/internal/core/domain/model/user"
	"bookstore/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetUserOrdersQueryHandlerTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetUserOrdersQueryHandler
	orderRepo *orderrepo.GormOrderRepository
	userRepo  *userrepo.GormUserRepository
	testUser  *user.User
}

func (suite *GetUserOrdersQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres.Migrate(db))

	suite.handler = queries.NewGetUserOrdersQueryHandler(db)
	suite.orderRepo = orderrepo.NewGormOrderRepository(db, &mockAggregateTracker{})
	suite.userRepo = userrepo.NewGormUserRepository(db, &mockAggregateTracker{})
}

func (suite *GetUserOrdersQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetUserOrdersQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE order_items, orders, users CASCADE").Error
	suite.Require().NoError(err)

	suite.testUser, err = user.NewUser(kernel.NewUUID(), "reader@example.com", "hash", "Test", "Reader",
		user.Customer)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.userRepo.Add(context.Background(), suite.testUser))
}

func (suite *GetUserOrdersQueryHandlerTestSuite) TestHandle_NoOrders_ReturnsEmptySlice() {
	query, err := queries.NewGetUserOrdersQuery(suite.testUser.ID(), ports.OrderFilter{})
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetUserOrdersQueryHandlerTestSuite) TestHandle_AggregatesTotalsFromItems() {
	placed := suite.addOrder(time.Now().UTC(), order.Pending, "12.50", 2, "3.00", 1)

	query, err := queries.NewGetUserOrdersQuery(suite.testUser.ID(), ports.OrderFilter{})
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.True(result[0].ID.IsEqual(placed.ID()))
	suite.Equal(order.Pending, result[0].Status)
	suite.Equal(3, result[0].TotalItems)
	suite.Equal("$28.00", result[0].TotalAmount.String())
	suite.True(result[0].TotalAmount.IsEqual(placed.TotalAmount()))
}

func (suite *GetUserOrdersQueryHandlerTestSuite) TestHandle_NewestFirstWithPagination() {
	base := time.Now().UTC().Add(-time.Hour)
	oldest := suite.addOrder(base, order.Pending, "1.00", 1, "", 0)
	middle := suite.addOrder(base.Add(10*time.Minute), order.Pending, "1.00", 1, "", 0)
	newest := suite.addOrder(base.Add(20*time.Minute), order.Pending, "1.00", 1, "", 0)

	firstPage, err := queries.NewGetUserOrdersQuery(suite.testUser.ID(), ports.OrderFilter{Limit: 2})
	suite.Require().NoError(err)
	result, err := suite.handler.Handle(context.Background(), firstPage)
	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.True(result[0].ID.IsEqual(newest.ID()))
	suite.True(result[1].ID.IsEqual(middle.ID()))

	secondPage, err := queries.NewGetUserOrdersQuery(suite.testUser.ID(), ports.OrderFilter{Limit: 2, Offset: 2})
	suite.Require().NoError(err)
	result, err = suite.handler.Handle(context.Background(), secondPage)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.True(result[0].ID.IsEqual(oldest.ID()))
}

func (suite *GetUserOrdersQueryHandlerTestSuite) TestHandle_FiltersByStatusAndDate() {
	base := time.Now().UTC().Add(-48 * time.Hour)
	suite.addOrder(base, order.Pending, "1.00", 1, "", 0)
	shipped := suite.addOrder(base.Add(24*time.Hour), order.Shipped, "1.00", 1, "", 0)
	suite.addOrder(base.Add(25*time.Hour), order.Cancelled, "1.00", 1, "", 0)

	status := order.Shipped
	query, err := queries.NewGetUserOrdersQuery(suite.testUser.ID(), ports.OrderFilter{Status: &status})
	suite.Require().NoError(err)
	result, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.True(result[0].ID.IsEqual(shipped.ID()))

	from := base.Add(time.Hour)
	to := base.Add(24*time.Hour + 30*time.Minute)
	query, err = queries.NewGetUserOrdersQuery(suite.testUser.ID(), ports.OrderFilter{From: &from, To: &to})
	suite.Require().NoError(err)
	result, err = suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.True(result[0].ID.IsEqual(shipped.ID()))
}

func (suite *GetUserOrdersQueryHandlerTestSuite) TestHandle_OtherUsersOrdersAreHidden() {
	other, err := user.NewUser(kernel.NewUUID(), "other@example.com", "hash", "Other", "Reader", user.Customer)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.userRepo.Add(context.Background(), other))
	suite.addOrder(time.Now().UTC(), order.Pending, "1.00", 1, "", 0)

	query, err := queries.NewGetUserOrdersQuery(other.ID(), ports.OrderFilter{})
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Empty(result)
}

func (suite *GetUserOrdersQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	result, err := suite.handler.Handle(context.Background(), queries.GetUserOrdersQuery{})

	suite.Require().ErrorIs(err, queries.ErrGetUserOrdersQueryIsNotConstructed)
	suite.Nil(result)
}

func (suite *GetUserOrdersQueryHandlerTestSuite) TestHandle_ContextCancellation_ReturnsError() {
	suite.addOrder(time.Now().UTC(), order.Pending, "1.00", 1, "", 0)

	query, err := queries.NewGetUserOrdersQuery(suite.testUser.ID(), ports.OrderFilter{})
	suite.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := suite.handler.Handle(ctx, query)

	suite.Require().Error(err)
	suite.Nil(result)
}

// addOrder stores an order with one or two lines. A second line is added when secondQty > 0.
func (suite *GetUserOrdersQueryHandlerTestSuite) addOrder(
	createdAt time.Time,
	status order.Status,
	firstPrice string, firstQty int,
	secondPrice string, secondQty int,
) *order.Order {
	lines := []struct {
		price string
		qty   int
	}{{firstPrice, firstQty}}
	if secondQty > 0 {
		lines = append(lines, struct {
			price string
			qty   int
		}{secondPrice, secondQty})
	}

	items := make([]*order.Item, 0, len(lines))
	for _, l := range lines {
		price, err := kernel.ParsePrice(l.price)
		suite.Require().NoError(err)
		item, err := order.NewItem(kernel.NewUUID(), l.qty, price)
		suite.Require().NoError(err)
		items = append(items, item)
	}

	o, err := order.RestoreOrder(kernel.NewUUID(), suite.testUser.ID(), status, items,
		"1 Test Street", "1 Test Street", createdAt, createdAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), o))
	return o
}

func TestGetUserOrdersQueryHandlerTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(GetUserOrdersQueryHandlerTestSuite))
}

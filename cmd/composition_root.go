package cmd

import (
	"log/slog"

	httpadapter "bookstore/internal/adapters/in/http"
	"bookstore/internal/adapters/out/notify"
	"bookstore/internal/adapters/out/postgres"
	"bookstore/internal/adapters/out/redis"
	"bookstore/internal/core/application/usecases/commands"
	"bookstore/internal/core/application/usecases/queries"
	"bookstore/internal/core/domain/services"
	"bookstore/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	cache      *redis.CacheInvalidator
	notifier   ports.Notifier
	pricing    services.PricingService
	uowFactory *postgres.GormUnitOfWorkFactory
}

// NewCompositionRoot wires the adapters together. Cache entries for every
// aggregate written in a scope are dropped once that scope commits.
func NewCompositionRoot(config Config, gormDB *gorm.DB, rdb goredis.UniversalClient, logger *slog.Logger) CompositionRoot {
	cache := redis.NewCacheInvalidator(rdb, config.CacheKeyPrefix, logger)

	return CompositionRoot{
		config:   config,
		gormDB:   gormDB,
		logger:   logger,
		cache:    cache,
		notifier: notify.NewLogNotifier(logger),
		pricing:  services.NewBulkDiscountPricing(),
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB,
			postgres.WithLogger(logger),
			postgres.WithCommitHook(cache.CommitHook()),
		),
	}
}

func (c *CompositionRoot) Transactor() ports.Transactor {
	return c.uowFactory
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	var f commands.PlaceOrderUoWFactory = FuncPlaceOrderUoWFactory(func() commands.PlaceOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceOrderCommandHandler(f, c.notifier, c.logger, c.config.OrderRetryAttempts)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.uowFactory, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateUpdateOrderAddressCommandHandler() commands.UpdateOrderAddressCommandHandler {
	return commands.NewUpdateOrderAddressCommandHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateAddToCartCommandHandler() commands.AddToCartCommandHandler {
	return commands.NewAddToCartCommandHandler(c.cartUoWFactory())
}

func (c *CompositionRoot) CreateCartItemCommandHandler() commands.CartItemCommandHandler {
	return commands.NewCartItemCommandHandler(c.cartUoWFactory())
}

func (c *CompositionRoot) CreateCreateUserCommandHandler() commands.CreateUserCommandHandler {
	return commands.NewCreateUserCommandHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateCategoryCommandHandler() commands.CategoryCommandHandler {
	return commands.NewCategoryCommandHandler(c.uowFactory, c.cache, c.logger)
}

func (c *CompositionRoot) CreateCreateReviewCommandHandler() commands.CreateReviewCommandHandler {
	var f commands.ReviewUoWFactory = FuncReviewUoWFactory(func() commands.ReviewUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateReviewCommandHandler(f)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory.Repositories())
}

func (c *CompositionRoot) CreateGetUserOrdersQueryHandler() queries.GetUserOrdersQueryHandler {
	return queries.NewGetUserOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCartSummaryQueryHandler() queries.GetCartSummaryQueryHandler {
	return queries.NewGetCartSummaryQueryHandler(c.uowFactory.Repositories(), c.pricing)
}

// HTTPHandlers collects the use cases served by the JSON API.
func (c *CompositionRoot) HTTPHandlers() httpadapter.Handlers {
	placeOrder := c.CreatePlaceOrderCommandHandler()
	updateStatus := c.CreateUpdateOrderStatusCommandHandler()
	updateAddress := c.CreateUpdateOrderAddressCommandHandler()
	addToCart := c.CreateAddToCartCommandHandler()

	return httpadapter.Handlers{
		PlaceOrder:         &placeOrder,
		UpdateOrderStatus:  &updateStatus,
		UpdateOrderAddress: &updateAddress,
		AddToCart:          &addToCart,
		GetOrder:           c.CreateGetOrderQueryHandler(),
		GetUserOrders:      c.CreateGetUserOrdersQueryHandler(),
		GetCartSummary:     c.CreateGetCartSummaryQueryHandler(),
	}
}

func (c *CompositionRoot) cartUoWFactory() commands.CartUoWFactory {
	return FuncCartUoWFactory(func() commands.CartUoW {
		return c.uowFactory.Create()
	})
}

type FuncPlaceOrderUoWFactory func() commands.PlaceOrderUoW

func (f FuncPlaceOrderUoWFactory) Create() commands.PlaceOrderUoW {
	return f()
}

type FuncCartUoWFactory func() commands.CartUoW

func (f FuncCartUoWFactory) Create() commands.CartUoW {
	return f()
}

type FuncReviewUoWFactory func() commands.ReviewUoW

func (f FuncReviewUoWFactory) Create() commands.ReviewUoW {
	return f()
}

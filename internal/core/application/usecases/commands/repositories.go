// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
//
// Two transaction styles are used. Handlers whose steps are spread across
// helper methods hold an explicit unit of work (Begin, Commit, Rollback);
// handlers whose work fits in one function run it through ports.Transactor.
// Notifications and cache invalidation happen only after a successful commit.
package commands

import (
	"context"

	"bookstore/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// BookRepoFactory provides access to the book repository within a transaction.
	BookRepoFactory interface {
		BookRepository() (ports.BookRepository, error)
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() (ports.OrderRepository, error)
	}

	// CartRepoFactory provides access to the cart repository within a transaction.
	CartRepoFactory interface {
		CartRepository() (ports.CartRepository, error)
	}

	// UserRepoFactory provides access to the user repository within a transaction.
	UserRepoFactory interface {
		UserRepository() (ports.UserRepository, error)
	}

	// ReviewRepoFactory provides access to the review repository within a transaction.
	ReviewRepoFactory interface {
		ReviewRepository() (ports.ReviewRepository, error)
	}

	// PlaceOrderUoW spans everything checkout touches: stock, the order and the cart.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   books, err := uow.BookRepository()
	//   orders, err := uow.OrderRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	PlaceOrderUoW interface {
		TxManager
		BookRepoFactory
		OrderRepoFactory
		CartRepoFactory
	}

	// PlaceOrderUoWFactory creates new checkout unit of work instances.
	PlaceOrderUoWFactory interface {
		Create() PlaceOrderUoW
	}

	// CartUoW manages transactions for cart operations that check book stock.
	CartUoW interface {
		TxManager
		BookRepoFactory
		CartRepoFactory
	}

	// CartUoWFactory creates new cart unit of work instances.
	CartUoWFactory interface {
		Create() CartUoW
	}

	// ReviewUoW manages transactions for reviews, which reference a book and a user.
	ReviewUoW interface {
		TxManager
		BookRepoFactory
		UserRepoFactory
		ReviewRepoFactory
	}

	// ReviewUoWFactory creates new review unit of work instances.
	ReviewUoWFactory interface {
		Create() ReviewUoW
	}
)

package ports

import (
	"context"

	"bookstore/internal/core/domain/model/kernel"
)

// Repositories is the set of repositories bound to one transaction scope.
// Every accessor fails with errs.ErrScopeNotActive outside the scope's active window.
type Repositories interface {
	BookRepository() (BookRepository, error)
	OrderRepository() (OrderRepository, error)
	CartRepository() (CartRepository, error)
	UserRepository() (UserRepository, error)
	CategoryRepository() (CategoryRepository, error)
	ReviewRepository() (ReviewRepository, error)
}

// UnitOfWork is the explicit-handle form of a transaction scope. A handle is
// owned by a single logical operation and is not safe for concurrent use.
//
// Lifecycle: Begin, any number of repository calls, then exactly one of Commit
// or Rollback. A second Begin while active fails with errs.ErrNestedTransaction;
// a terminal call without an active scope fails with errs.ErrNoActiveTransaction.
type UnitOfWork interface {
	Repositories

	// Begin opens the underlying serializable transaction.
	Begin(ctx context.Context) error

	// Commit applies the scope and waits until the store has finished.
	Commit(ctx context.Context) error

	// Rollback discards the scope and waits for the unwind. The scope is
	// released even if the store reports an error while unwinding.
	Rollback(ctx context.Context) error
}

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// Work is the body of a scoped-callback transaction. ctx carries the scope
// marker used for nested-call detection and must be passed on to repositories.
type Work func(ctx context.Context, scope Repositories) error

// Transactor is the scoped-callback form of a transaction scope.
type Transactor interface {
	// RunAtomically commits when work returns nil and rolls back otherwise.
	// Errors returned by work come back unchanged; failures of the transaction
	// mechanism come back as *errs.TransactionError. Calling RunAtomically
	// from inside work fails with errs.ErrNestedTransaction.
	RunAtomically(ctx context.Context, work Work) error
}

// RunAtomicallyWithResult runs work through t and returns the value it produced.
// The value is the zero value of T whenever an error is returned.
func RunAtomicallyWithResult[T any](
	ctx context.Context,
	t Transactor,
	work func(ctx context.Context, scope Repositories) (T, error),
) (T, error) {
	var result T
	err := t.RunAtomically(ctx, func(ctx context.Context, scope Repositories) error {
		var workErr error
		result, workErr = work(ctx, scope)
		return workErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// TrackedAggregate is an aggregate written during a scope. Tracked aggregates
// are handed to the commit hook only after the scope has committed.
type TrackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// CommitHook runs after a successful commit with the aggregates the scope wrote.
// Its failures are logged and never undo the commit.
type CommitHook func(ctx context.Context, tracked []TrackedAggregate)

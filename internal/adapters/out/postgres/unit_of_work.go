// Package postgres provides the GORM-based transaction coordinator of the bookstore.
//
// One internal primitive, transact, runs a body inside a single serializable
// GORM transaction. Two calling conventions are built on it:
//
// Scoped callback, for work that fits in one function:
//
//	err := factory.RunAtomically(ctx, func(ctx context.Context, scope ports.Repositories) error {
//	    orders, err := scope.OrderRepository()
//	    if err != nil {
//	        return err
//	    }
//	    return orders.UpdateStatus(ctx, id, order.Shipped)
//	})
//
// Explicit handle, for steps spread across several calls:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	books, err := uow.BookRepository()
//	// ...
//	return uow.Commit(ctx)
//
// GORM only offers a callback transaction, so Begin starts the callback on its
// own goroutine and parks it on a one-shot gate; Commit and Rollback fire the
// gate and wait for the callback to return.
//
// Error handling: errors returned by the work come back unchanged, except
// PostgreSQL, driver and context errors, which are reported as
// *errs.TransactionError together with failures of begin and commit.
// Serialization failures, deadlocks and lock timeouts are marked retryable.
// Nothing is retried here.
//
// Aggregates written in a scope are handed to the commit hook once the
// transaction has committed, never before.
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"log/slog"
	"sync"

	"bookstore/internal/adapters/out/postgres/pgerr"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"

	"gorm.io/gorm"
)

// errRollbackRequested makes the parked transaction body return an error so GORM rolls back.
var errRollbackRequested = errors.New("rollback requested")

// scopeMarkerKey marks contexts handed to work inside an active scope.
type scopeMarkerKey struct{}

// workError carries an error returned by the caller's work through GORM,
// so it can be told apart from failures of the transaction itself.
type workError struct {
	err error
}

func (e *workError) Error() string { return e.err.Error() }
func (e *workError) Unwrap() error { return e.err }

// gate is a single-use signal. The first fire delivers the outcome: nil to
// commit, non-nil to roll back. Later fires are ignored.
type gate struct {
	once   sync.Once
	signal chan error
}

func newGate() *gate {
	return &gate{signal: make(chan error, 1)}
}

func (g *gate) fire(outcome error) bool {
	fired := false
	g.once.Do(func() {
		g.signal <- outcome
		fired = true
	})
	return fired
}

// Option configures a GormUnitOfWorkFactory.
type Option func(*GormUnitOfWorkFactory)

// WithLogger sets the logger used for transaction lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(f *GormUnitOfWorkFactory) {
		f.logger = logger
	}
}

// WithCommitHook registers a function that receives the tracked aggregates
// after every successful commit.
func WithCommitHook(hook ports.CommitHook) Option {
	return func(f *GormUnitOfWorkFactory) {
		f.commitHook = hook
	}
}

// GormUnitOfWorkFactory creates transaction scopes over one GORM database.
// It implements ports.UnitOfWorkFactory and ports.Transactor.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    return err
//	}
//	factory := NewGormUnitOfWorkFactory(db, WithLogger(logger))
type GormUnitOfWorkFactory struct {
	db         *gorm.DB
	logger     *slog.Logger
	commitHook ports.CommitHook
	txOptions  *sql.TxOptions
}

// NewGormUnitOfWorkFactory creates a factory whose transactions run at serializable isolation.
func NewGormUnitOfWorkFactory(db *gorm.DB, opts ...Option) *GormUnitOfWorkFactory {
	f := &GormUnitOfWorkFactory{
		db:        db,
		logger:    slog.Default(),
		txOptions: &sql.TxOptions{Isolation: sql.LevelSerializable},
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With("component", "unit_of_work")

	return f
}

// Create produces a new explicit-handle unit of work.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{factory: f}
}

// Repositories returns repositories bound to no transaction, for queries.
func (f *GormUnitOfWorkFactory) Repositories() ports.Repositories {
	return directRepositories{db: f.db}
}

// RunAtomically executes work with transaction-bound repositories, committing
// when it returns nil and rolling back otherwise.
func (f *GormUnitOfWorkFactory) RunAtomically(ctx context.Context, work ports.Work) error {
	if ctx.Value(scopeMarkerKey{}) != nil {
		return errs.ErrNestedTransaction
	}

	tracker := newAggregateTracker()
	f.logger.DebugContext(ctx, "transaction started", "mode", "callback")

	err := f.transact(ctx, func(tx *gorm.DB) error {
		scope := newTxScope(tx, tracker)
		defer scope.close()

		if workErr := work(context.WithValue(ctx, scopeMarkerKey{}, scope), scope); workErr != nil {
			return &workError{err: workErr}
		}
		return nil
	})
	if err != nil {
		f.logger.DebugContext(ctx, "transaction rolled back", "mode", "callback")
		return f.normalize(ctx, err)
	}

	f.committed(ctx, "callback", tracker)
	return nil
}

// transact runs body in one serializable transaction.
func (f *GormUnitOfWorkFactory) transact(ctx context.Context, body func(tx *gorm.DB) error) error {
	return f.db.WithContext(ctx).Transaction(body, f.txOptions)
}

func (f *GormUnitOfWorkFactory) committed(ctx context.Context, mode string, tracker *aggregateTracker) {
	tracked := tracker.drain()
	f.logger.DebugContext(ctx, "transaction committed", "mode", mode, "aggregates", len(tracked))

	if f.commitHook != nil && len(tracked) > 0 {
		f.commitHook(ctx, tracked)
	}
}

// normalize returns business errors from work unchanged and turns everything
// else into a TransactionError.
func (f *GormUnitOfWorkFactory) normalize(ctx context.Context, err error) error {
	var we *workError
	if errors.As(err, &we) {
		if !isInfrastructureError(we.err) {
			return we.err
		}
		err = we.err
	}

	txErr := classify(err)
	if txErr.Retryable() {
		f.logger.WarnContext(ctx, "transaction conflict", "error", err)
	} else {
		f.logger.ErrorContext(ctx, "transaction failed", "error", err)
	}

	return txErr
}

func isInfrastructureError(err error) bool {
	return pgerr.IsPostgres(err) ||
		pgerr.IsConcurrencyConflict(err) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, sql.ErrTxDone) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, gorm.ErrInvalidTransaction)
}

func classify(err error) *errs.TransactionError {
	if pgerr.IsConcurrencyConflict(err) || errors.Is(err, context.DeadlineExceeded) {
		return errs.NewTransactionConflictError(err)
	}
	return errs.NewTransactionErrorWithCause("transaction aborted", err)
}

// GormUnitOfWork is the explicit-handle scope. Between Begin and the terminal
// Commit or Rollback, a goroutine holds the GORM transaction open on a gate.
// A handle may be reused for another Begin after it has terminated.
type GormUnitOfWork struct {
	factory *GormUnitOfWorkFactory

	mu      sync.Mutex
	scope   *txScope
	gate    *gate
	done    chan error
	tracker *aggregateTracker
}

// Begin opens the transaction and returns once the store has started it.
// ctx bounds the whole transaction: if it ends before Commit, the transaction
// is rolled back and Commit reports the context error.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	if uow.scope != nil || ctx.Value(scopeMarkerKey{}) != nil {
		return errs.ErrNestedTransaction
	}

	g := newGate()
	ready := make(chan *gorm.DB, 1)
	done := make(chan error, 1)

	go func() {
		done <- uow.factory.transact(ctx, func(tx *gorm.DB) error {
			ready <- tx
			select {
			case outcome := <-g.signal:
				return outcome
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	select {
	case tx := <-ready:
		uow.tracker = newAggregateTracker()
		uow.scope = newTxScope(tx, uow.tracker)
		uow.gate = g
		uow.done = done
		uow.factory.logger.DebugContext(ctx, "transaction started", "mode", "handle")
		return nil
	case err := <-done:
		return uow.factory.normalize(ctx, err)
	}
}

// Commit fires the gate with success and waits until the store has applied the transaction.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	g, done, tracker, ok := uow.release()
	if !ok {
		return errs.ErrNoActiveTransaction
	}

	g.fire(nil)
	if err := <-done; err != nil {
		tracker.drain()
		uow.factory.logger.DebugContext(ctx, "transaction rolled back", "mode", "handle")
		return uow.factory.normalize(ctx, err)
	}

	uow.factory.committed(ctx, "handle", tracker)
	return nil
}

// Rollback fires the gate with failure and waits for the unwind. The scope is
// released even when the store reports an error while unwinding.
func (uow *GormUnitOfWork) Rollback(ctx context.Context) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	g, done, tracker, ok := uow.release()
	if !ok {
		return errs.ErrNoActiveTransaction
	}

	g.fire(errRollbackRequested)
	if err := <-done; err != nil && !errors.Is(err, errRollbackRequested) {
		uow.factory.logger.WarnContext(ctx, "transaction ended before rollback", "error", err)
	}
	tracker.drain()
	uow.factory.logger.DebugContext(ctx, "transaction rolled back", "mode", "handle")

	return nil
}

// release deactivates the scope and hands back what is needed to finish it.
// Must be called with mu held.
func (uow *GormUnitOfWork) release() (*gate, chan error, *aggregateTracker, bool) {
	if uow.scope == nil {
		return nil, nil, nil, false
	}

	uow.scope.close()
	g, done, tracker := uow.gate, uow.done, uow.tracker
	uow.scope, uow.gate, uow.done, uow.tracker = nil, nil, nil, nil

	return g, done, tracker, true
}

func (uow *GormUnitOfWork) active() (*txScope, error) {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	if uow.scope == nil {
		return nil, errs.ErrScopeNotActive
	}
	return uow.scope, nil
}

// BookRepository returns the book repository bound to the active transaction.
func (uow *GormUnitOfWork) BookRepository() (ports.BookRepository, error) {
	scope, err := uow.active()
	if err != nil {
		return nil, err
	}
	return scope.BookRepository()
}

// OrderRepository returns the order repository bound to the active transaction.
func (uow *GormUnitOfWork) OrderRepository() (ports.OrderRepository, error) {
	scope, err := uow.active()
	if err != nil {
		return nil, err
	}
	return scope.OrderRepository()
}

// CartRepository returns the cart repository bound to the active transaction.
func (uow *GormUnitOfWork) CartRepository() (ports.CartRepository, error) {
	scope, err := uow.active()
	if err != nil {
		return nil, err
	}
	return scope.CartRepository()
}

// UserRepository returns the user repository bound to the active transaction.
func (uow *GormUnitOfWork) UserRepository() (ports.UserRepository, error) {
	scope, err := uow.active()
	if err != nil {
		return nil, err
	}
	return scope.UserRepository()
}

// CategoryRepository returns the category repository bound to the active transaction.
func (uow *GormUnitOfWork) CategoryRepository() (ports.CategoryRepository, error) {
	scope, err := uow.active()
	if err != nil {
		return nil, err
	}
	return scope.CategoryRepository()
}

// ReviewRepository returns the review repository bound to the active transaction.
func (uow *GormUnitOfWork) ReviewRepository() (ports.ReviewRepository, error) {
	scope, err := uow.active()
	if err != nil {
		return nil, err
	}
	return scope.ReviewRepository()
}

package postgres

import (
	"sync"
	"sync/atomic"

	"bookstore/internal/adapters/out/postgres/bookrepo"
	"bookstore/internal/adapters/out/postgres/cartrepo"
	"bookstore/internal/adapters/out/postgres/categoryrepo"
	"bookstore/internal/adapters/out/postgres/orderrepo"
	"bookstore/internal/adapters/out/postgres/reviewrepo"
	"bookstore/internal/adapters/out/postgres/userrepo"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"

	"gorm.io/gorm"
)

// aggregateTracker collects the aggregates written during one scope.
type aggregateTracker struct {
	mu      sync.Mutex
	tracked []ports.TrackedAggregate
}

func newAggregateTracker() *aggregateTracker {
	return &aggregateTracker{tracked: make([]ports.TrackedAggregate, 0)}
}

// TrackAggregate registers an aggregate as modified within the scope.
// Writes that do not load the aggregate pass a typed nil pointer so the kind is still known.
func (t *aggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tracked = append(t.tracked, ports.TrackedAggregate{ID: id, Aggregate: aggregate})
}

// drain returns the tracked aggregates and resets the tracker.
func (t *aggregateTracker) drain() []ports.TrackedAggregate {
	t.mu.Lock()
	defer t.mu.Unlock()
	tracked := t.tracked
	t.tracked = make([]ports.TrackedAggregate, 0)
	return tracked
}

type discardTracker struct{}

func (discardTracker) TrackAggregate(kernel.UUID, any) {}

// txScope is the set of repositories bound to one transaction. It becomes
// inactive when the transaction ends; accessors then fail with ErrScopeNotActive.
type txScope struct {
	tx      *gorm.DB
	tracker *aggregateTracker
	active  atomic.Bool
}

func newTxScope(tx *gorm.DB, tracker *aggregateTracker) *txScope {
	s := &txScope{tx: tx, tracker: tracker}
	s.active.Store(true)
	return s
}

func (s *txScope) close() {
	s.active.Store(false)
}

func (s *txScope) db() (*gorm.DB, error) {
	if !s.active.Load() {
		return nil, errs.ErrScopeNotActive
	}
	return s.tx, nil
}

func (s *txScope) BookRepository() (ports.BookRepository, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}
	return bookrepo.NewGormBookRepository(db, s.tracker), nil
}

func (s *txScope) OrderRepository() (ports.OrderRepository, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}
	return orderrepo.NewGormOrderRepository(db, s.tracker), nil
}

func (s *txScope) CartRepository() (ports.CartRepository, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}
	return cartrepo.NewGormCartRepository(db, s.tracker), nil
}

func (s *txScope) UserRepository() (ports.UserRepository, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}
	return userrepo.NewGormUserRepository(db, s.tracker), nil
}

func (s *txScope) CategoryRepository() (ports.CategoryRepository, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}
	return categoryrepo.NewGormCategoryRepository(db, s.tracker), nil
}

func (s *txScope) ReviewRepository() (ports.ReviewRepository, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}
	return reviewrepo.NewGormReviewRepository(db, s.tracker), nil
}

// directRepositories serves reads outside any transaction scope.
type directRepositories struct {
	db *gorm.DB
}

func (r directRepositories) BookRepository() (ports.BookRepository, error) {
	return bookrepo.NewGormBookRepository(r.db, discardTracker{}), nil
}

func (r directRepositories) OrderRepository() (ports.OrderRepository, error) {
	return orderrepo.NewGormOrderRepository(r.db, discardTracker{}), nil
}

func (r directRepositories) CartRepository() (ports.CartRepository, error) {
	return cartrepo.NewGormCartRepository(r.db, discardTracker{}), nil
}

func (r directRepositories) UserRepository() (ports.UserRepository, error) {
	return userrepo.NewGormUserRepository(r.db, discardTracker{}), nil
}

func (r directRepositories) CategoryRepository() (ports.CategoryRepository, error) {
	return categoryrepo.NewGormCategoryRepository(r.db, discardTracker{}), nil
}

func (r directRepositories) ReviewRepository() (ports.ReviewRepository, error) {
	return reviewrepo.NewGormReviewRepository(r.db, discardTracker{}), nil
}

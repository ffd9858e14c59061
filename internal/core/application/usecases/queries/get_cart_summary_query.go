package queries

import (
	"context"
	"errors"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/domain/services"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"
	"bookstore/internal/pkg/guard"
)

var ErrGetCartSummaryQueryIsNotConstructed = errors.New(
	"GetCartSummaryQuery must be created via NewGetCartSummaryQuery constructor",
)

type GetCartSummaryQuery struct {
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCartSummaryQuery(userID kernel.UUID) (GetCartSummaryQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetCartSummaryQuery{}, err
	}
	return GetCartSummaryQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCartSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetCartSummaryQueryIsNotConstructed)
}

// CartSummary describes a cart for display. A user without a cart gets an
// empty summary.
type CartSummary struct {
	TotalItems     int
	UniqueItems    int
	EstimatedTotal kernel.Price
}

// GetCartSummaryQueryHandler prices the cart with the current catalogue prices.
// It reads outside any transaction scope, so the estimate may already be stale
// when an order is placed.
type GetCartSummaryQueryHandler struct {
	repositories ports.Repositories
	pricing      services.PricingService
}

func NewGetCartSummaryQueryHandler(
	repositories ports.Repositories,
	pricing services.PricingService,
) GetCartSummaryQueryHandler {
	return GetCartSummaryQueryHandler{repositories: repositories, pricing: pricing}
}

func (h GetCartSummaryQueryHandler) Handle(ctx context.Context, query GetCartSummaryQuery) (CartSummary, error) {
	if err := query.Validate(); err != nil {
		return CartSummary{}, err
	}

	cartRepo, err := h.repositories.CartRepository()
	if err != nil {
		return CartSummary{}, err
	}
	bookRepo, err := h.repositories.BookRepository()
	if err != nil {
		return CartSummary{}, err
	}

	userCart, err := cartRepo.GetByUser(ctx, query.userID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return CartSummary{EstimatedTotal: kernel.ZeroPrice()}, nil
	}
	if err != nil {
		return CartSummary{}, err
	}

	items := userCart.Items()
	ids := make([]kernel.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.BookID())
	}

	books, err := bookRepo.GetMany(ctx, ids)
	if err != nil {
		return CartSummary{}, err
	}

	prices := make(map[kernel.UUID]kernel.Price, len(books))
	for _, b := range books {
		prices[b.ID()] = b.Price()
	}

	total, err := h.pricing.CartTotal(userCart, prices)
	if err != nil {
		return CartSummary{}, err
	}

	return CartSummary{
		TotalItems:     userCart.TotalItems(),
		UniqueItems:    userCart.UniqueItemsCount(),
		EstimatedTotal: total,
	}, nil
}

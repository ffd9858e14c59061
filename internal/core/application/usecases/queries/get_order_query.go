package queries

import (
	"context"
	"errors"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/domain/model/order"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"
	"bookstore/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery loads one order with its items.
//
// When the query carries a requesting user, an order owned by somebody else is
// reported as not found.
type GetOrderQuery struct {
	orderID     kernel.UUID
	requestedBy *kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates the query. requestedBy may be nil for administrative reads.
func NewGetOrderQuery(orderID kernel.UUID, requestedBy *kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	if requestedBy != nil {
		if err := requestedBy.Validate(); err != nil {
			return GetOrderQuery{}, err
		}
	}

	return GetOrderQuery{
		orderID:     orderID,
		requestedBy: requestedBy,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// GetOrderQueryHandler reads through non-transactional repositories.
type GetOrderQueryHandler struct {
	repositories ports.Repositories
}

func NewGetOrderQueryHandler(repositories ports.Repositories) GetOrderQueryHandler {
	return GetOrderQueryHandler{repositories: repositories}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orderRepo, err := h.repositories.OrderRepository()
	if err != nil {
		return nil, err
	}

	found, err := orderRepo.Get(ctx, query.orderID)
	if err != nil {
		return nil, err
	}

	if query.requestedBy != nil && !found.UserID().IsEqual(*query.requestedBy) {
		return nil, errs.NewObjectNotFoundError("order", query.orderID)
	}

	return found, nil
}

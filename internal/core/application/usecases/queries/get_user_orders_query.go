package queries

import (
	"errors"
	"fmt"
	"time"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/domain/model/order"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"
	"bookstore/internal/pkg/guard"
)

var ErrGetUserOrdersQueryIsNotConstructed = errors.New(
	"GetUserOrdersQuery must be created via NewGetUserOrdersQuery constructor",
)

// MaxOrderListLimit caps the page size of GetUserOrdersQuery.
const MaxOrderListLimit = 100

// GetUserOrdersQuery lists a user's orders, newest first.
//
// Example:
//
//	pending := order.Pending
//	query, err := NewGetUserOrdersQuery(userID, ports.OrderFilter{Status: &pending})
//	if err != nil {
//	    return err
//	}
//	summaries, err := handler.Handle(ctx, query)
type GetUserOrdersQuery struct {
	userID kernel.UUID
	filter ports.OrderFilter

	guard guard.ConstructorGuard
}

// NewGetUserOrdersQuery validates the filter. A zero limit becomes
// ports.DefaultOrderListLimit.
func NewGetUserOrdersQuery(userID kernel.UUID, filter ports.OrderFilter) (GetUserOrdersQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetUserOrdersQuery{}, err
	}
	if filter.Limit == 0 {
		filter.Limit = ports.DefaultOrderListLimit
	}
	if filter.Limit < 0 || filter.Limit > MaxOrderListLimit {
		return GetUserOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", filter.Limit, 1, MaxOrderListLimit)
	}
	if filter.Offset < 0 {
		return GetUserOrdersQuery{}, errs.NewValueIsOutOfRangeError("offset", filter.Offset, 0, "unbounded")
	}
	if filter.Status != nil && *filter.Status == order.Unknown {
		return GetUserOrdersQuery{}, errs.NewValueIsInvalidError("status")
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return GetUserOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause("date range",
			fmt.Errorf("%s is after %s", filter.From.Format(time.RFC3339), filter.To.Format(time.RFC3339)))
	}

	return GetUserOrdersQuery{
		userID: userID,
		filter: filter,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q GetUserOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUserOrdersQueryIsNotConstructed)
}

func (q GetUserOrdersQuery) UserID() kernel.UUID { return q.userID }
func (q GetUserOrdersQuery) Filter() ports.OrderFilter { return q.filter }

// OrderSummary is one row of a user's order history. Totals are computed from
// the captured item prices.
type OrderSummary struct {
	ID          kernel.UUID
	Status      order.Status
	TotalItems  int
	TotalAmount kernel.Price
	CreatedAt   time.Time
}

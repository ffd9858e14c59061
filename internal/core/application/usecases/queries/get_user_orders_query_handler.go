package queries

import (
	"context"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetUserOrdersQueryHandler reads order summaries straight from the tables.
// Totals are aggregated in SQL so the items are never loaded.
type GetUserOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetUserOrdersQueryHandler(db *gorm.DB) GetUserOrdersQueryHandler {
	return GetUserOrdersQueryHandler{db: db}
}

// Handle returns at most filter.Limit summaries ordered by creation time, newest first.
func (h GetUserOrdersQueryHandler) Handle(ctx context.Context, query GetUserOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	filter := query.Filter()
	stmt := h.db.WithContext(ctx).
		Table("orders AS o").
		Select(`o.id, o.status, o.created_at,
			COALESCE(SUM(i.quantity), 0) AS total_items,
			COALESCE(SUM(i.quantity * i.unit_price), 0) AS total_amount`).
		Joins("LEFT JOIN order_items AS i ON i.order_id = o.id").
		Where("o.user_id = ?", query.UserID().Bytes())

	if filter.Status != nil {
		stmt = stmt.Where("o.status = ?", filter.Status.String())
	}
	if filter.From != nil {
		stmt = stmt.Where("o.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("o.created_at <= ?", *filter.To)
	}

	rows, err := stmt.
		Group("o.id").
		Order("o.created_at DESC, o.id").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]OrderSummary, 0)
	for rows.Next() {
		var (
			summary     OrderSummary
			id          uuid.UUID
			status      string
			totalItems  int64
			totalAmount decimal.Decimal
		)

		if err = rows.Scan(&id, &status, &summary.CreatedAt, &totalItems, &totalAmount); err != nil {
			return nil, err
		}

		if summary.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if summary.Status, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		if summary.TotalAmount, err = kernel.NewPrice(totalAmount); err != nil {
			return nil, err
		}
		summary.TotalItems = int(totalItems)

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

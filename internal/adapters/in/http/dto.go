package http

import (
	"time"

	"bookstore/internal/core/application/usecases/queries"
	"bookstore/internal/core/domain/model/cart"
	"bookstore/internal/core/domain/model/order"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type OrderLineRequest struct {
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
}

type PlaceOrderRequest struct {
	Items           []OrderLineRequest `json:"items"`
	ShippingAddress string             `json:"shipping_address"`
	BillingAddress  string             `json:"billing_address"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type UpdateOrderAddressRequest struct {
	ShippingAddress string `json:"shipping_address"`
	BillingAddress  string `json:"billing_address"`
}

type AddToCartRequest struct {
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
}

type OrderItem struct {
	BookID    string `json:"book_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Status          string      `json:"status"`
	Items           []OrderItem `json:"items"`
	TotalItems      int         `json:"total_items"`
	TotalAmount     string      `json:"total_amount"`
	ShippingAddress string      `json:"shipping_address"`
	BillingAddress  string      `json:"billing_address"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type OrderSummary struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	TotalItems  int       `json:"total_items"`
	TotalAmount string    `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

type CartItem struct {
	BookID   string    `json:"book_id"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

type Cart struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Items       []CartItem `json:"items"`
	TotalItems  int        `json:"total_items"`
	UniqueItems int        `json:"unique_items"`
}

type CartSummary struct {
	TotalItems     int    `json:"total_items"`
	UniqueItems    int    `json:"unique_items"`
	EstimatedTotal string `json:"estimated_total"`
}

// Amounts are rendered as plain decimals with two places, e.g. "12.50".
func toOrderResponse(o *order.Order) Order {
	items := o.Items()
	respItems := make([]OrderItem, len(items))
	for i, item := range items {
		respItems[i] = OrderItem{
			BookID:    item.BookID().String(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Amount().StringFixed(2),
			Subtotal:  item.Subtotal().Amount().StringFixed(2),
		}
	}

	return Order{
		ID:              o.ID().String(),
		UserID:          o.UserID().String(),
		Status:          o.Status().String(),
		Items:           respItems,
		TotalItems:      o.TotalItems(),
		TotalAmount:     o.TotalAmount().Amount().StringFixed(2),
		ShippingAddress: o.ShippingAddress(),
		BillingAddress:  o.BillingAddress(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
}

func toOrderSummaries(summaries []queries.OrderSummary) []OrderSummary {
	resp := make([]OrderSummary, len(summaries))
	for i, s := range summaries {
		resp[i] = OrderSummary{
			ID:          s.ID.String(),
			Status:      s.Status.String(),
			TotalItems:  s.TotalItems,
			TotalAmount: s.TotalAmount.Amount().StringFixed(2),
			CreatedAt:   s.CreatedAt,
		}
	}
	return resp
}

func toCartResponse(c *cart.Cart) Cart {
	items := c.Items()
	respItems := make([]CartItem, len(items))
	for i, item := range items {
		respItems[i] = CartItem{
			BookID:   item.BookID().String(),
			Quantity: item.Quantity(),
			AddedAt:  item.AddedAt(),
		}
	}

	return Cart{
		ID:          c.ID().String(),
		UserID:      c.UserID().String(),
		Items:       respItems,
		TotalItems:  c.TotalItems(),
		UniqueItems: c.UniqueItemsCount(),
	}
}

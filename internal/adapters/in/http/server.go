// Package http exposes the order and cart use cases over a small JSON API.
// Authentication happens in front of this service; the acting user arrives in
// the X-User-ID header.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"bookstore/internal/core/application/usecases/commands"
	"bookstore/internal/core/application/usecases/queries"
	"bookstore/internal/core/domain/model/cart"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/domain/model/order"
	"bookstore/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// UserIDHeader carries the id of the authenticated user.
const UserIDHeader = "X-User-ID"

type (
	PlaceOrderHandler interface {
		Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (*order.Order, error)
	}
	UpdateOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error)
	}
	UpdateOrderAddressHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderAddressCommand) (*order.Order, error)
	}
	AddToCartHandler interface {
		Handle(ctx context.Context, cmd commands.AddToCartCommand) (*cart.Cart, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (*order.Order, error)
	}
	GetUserOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetUserOrdersQuery) ([]queries.OrderSummary, error)
	}
	GetCartSummaryHandler interface {
		Handle(ctx context.Context, query queries.GetCartSummaryQuery) (queries.CartSummary, error)
	}
)

// Handlers groups the use cases served by the API.
type Handlers struct {
	PlaceOrder         PlaceOrderHandler
	UpdateOrderStatus  UpdateOrderStatusHandler
	UpdateOrderAddress UpdateOrderAddressHandler
	AddToCart          AddToCartHandler
	GetOrder           GetOrderHandler
	GetUserOrders      GetUserOrdersHandler
	GetCartSummary     GetCartSummaryHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

func NewServer(h Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{h: h, logger: logger.With("component", "http")}
}

// Register mounts the routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)

	v1 := e.Group("/api/v1")
	v1.POST("/orders", s.PlaceOrder)
	v1.GET("/orders", s.GetUserOrders)
	v1.GET("/orders/:id", s.GetOrder)
	v1.PATCH("/orders/:id/status", s.UpdateOrderStatus)
	v1.PATCH("/orders/:id/address", s.UpdateOrderAddress)
	v1.POST("/cart/items", s.AddToCart)
	v1.GET("/cart", s.GetCartSummary)
}

func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(c echo.Context) error {
	userID, err := userFrom(c)
	if err != nil {
		return badRequest(c, "missing or invalid "+UserIDHeader+" header")
	}

	var req PlaceOrderRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	lines := make([]commands.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		bookID, parseErr := kernel.UUIDFromString(item.BookID)
		if parseErr != nil {
			return s.writeError(c, parseErr)
		}
		lines = append(lines, commands.OrderLine{BookID: bookID, Quantity: item.Quantity})
	}

	cmd, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), userID, lines, req.ShippingAddress, req.BillingAddress)
	if err != nil {
		return s.writeError(c, err)
	}

	placed, err := s.h.PlaceOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, toOrderResponse(placed))
}

// GetOrder handles GET /api/v1/orders/:id. Only the owner can read an order.
func (s *Server) GetOrder(c echo.Context) error {
	userID, err := userFrom(c)
	if err != nil {
		return badRequest(c, "missing or invalid "+UserIDHeader+" header")
	}
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.writeError(c, err)
	}

	query, err := queries.NewGetOrderQuery(orderID, &userID)
	if err != nil {
		return s.writeError(c, err)
	}

	found, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toOrderResponse(found))
}

// GetUserOrders handles GET /api/v1/orders?status=&from=&to=&limit=&offset=.
// Dates use RFC 3339.
func (s *Server) GetUserOrders(c echo.Context) error {
	userID, err := userFrom(c)
	if err != nil {
		return badRequest(c, "missing or invalid "+UserIDHeader+" header")
	}

	filter, err := orderFilterFrom(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	query, err := queries.NewGetUserOrdersQuery(userID, filter)
	if err != nil {
		return s.writeError(c, err)
	}

	summaries, err := s.h.GetUserOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toOrderSummaries(summaries))
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status.
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.writeError(c, err)
	}

	var req UpdateOrderStatusRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, status)
	if err != nil {
		return s.writeError(c, err)
	}

	updated, err := s.h.UpdateOrderStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toOrderResponse(updated))
}

// UpdateOrderAddress handles PATCH /api/v1/orders/:id/address. An empty field keeps the current address.
func (s *Server) UpdateOrderAddress(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.writeError(c, err)
	}

	var req UpdateOrderAddressRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	cmd, err := commands.NewUpdateOrderAddressCommand(orderID, req.ShippingAddress, req.BillingAddress)
	if err != nil {
		return s.writeError(c, err)
	}

	updated, err := s.h.UpdateOrderAddress.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toOrderResponse(updated))
}

// AddToCart handles POST /api/v1/cart/items.
func (s *Server) AddToCart(c echo.Context) error {
	userID, err := userFrom(c)
	if err != nil {
		return badRequest(c, "missing or invalid "+UserIDHeader+" header")
	}

	var req AddToCartRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	bookID, err := kernel.UUIDFromString(req.BookID)
	if err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewAddToCartCommand(userID, bookID, req.Quantity)
	if err != nil {
		return s.writeError(c, err)
	}

	updated, err := s.h.AddToCart.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toCartResponse(updated))
}

// GetCartSummary handles GET /api/v1/cart.
func (s *Server) GetCartSummary(c echo.Context) error {
	userID, err := userFrom(c)
	if err != nil {
		return badRequest(c, "missing or invalid "+UserIDHeader+" header")
	}

	query, err := queries.NewGetCartSummaryQuery(userID)
	if err != nil {
		return s.writeError(c, err)
	}

	summary, err := s.h.GetCartSummary.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, CartSummary{
		TotalItems:     summary.TotalItems,
		UniqueItems:    summary.UniqueItems,
		EstimatedTotal: summary.EstimatedTotal.Amount().StringFixed(2),
	})
}

func userFrom(c echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Request().Header.Get(UserIDHeader))
}

func orderFilterFrom(c echo.Context) (ports.OrderFilter, error) {
	var filter ports.OrderFilter

	if raw := c.QueryParam("status"); raw != "" {
		status, err := order.ParseStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	for name, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		*dst = &t
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, err
		}
		*dst = n
	}

	return filter, nil
}

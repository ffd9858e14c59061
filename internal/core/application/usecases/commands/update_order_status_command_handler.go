package commands

import (
	"context"
	"log/slog"
	"time"

	"bookstore/internal/core/domain/model/order"
	"bookstore/internal/core/ports"
)

// UpdateOrderStatusCommandHandler applies a status transition. The order's state
// machine is evaluated before anything is written; rejected transitions leave the
// stored order untouched.
type UpdateOrderStatusCommandHandler struct {
	transactor ports.Transactor
	notifier   ports.Notifier
	logger     *slog.Logger
}

func NewUpdateOrderStatusCommandHandler(
	transactor ports.Transactor,
	notifier ports.Notifier,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		transactor: transactor,
		notifier:   notifier,
		logger:     logger,
	}
}

// Handle returns the order as re-read after the write, inside the same scope.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var previous order.Status
	updated, err := ports.RunAtomicallyWithResult(ctx, h.transactor,
		func(ctx context.Context, scope ports.Repositories) (*order.Order, error) {
			orderRepo, err := scope.OrderRepository()
			if err != nil {
				return nil, err
			}

			current, err := orderRepo.Get(ctx, cmd.OrderID())
			if err != nil {
				return nil, err
			}

			previous = current.Status()
			if err = current.ChangeStatus(cmd.Status()); err != nil {
				return nil, err
			}

			if err = orderRepo.UpdateStatus(ctx, current.ID(), current.Status()); err != nil {
				return nil, err
			}

			return orderRepo.Get(ctx, current.ID())
		})
	if err != nil {
		return nil, err
	}

	publish(ctx, h.notifier, h.logger, ports.Event{
		Name:        ports.EventOrderStatusUpdated,
		AggregateID: updated.ID(),
		OccurredAt:  time.Now().UTC(),
		Payload: map[string]string{
			"user_id":         updated.UserID().String(),
			"previous_status": previous.String(),
			"status":          updated.Status().String(),
		},
	})

	return updated, nil
}

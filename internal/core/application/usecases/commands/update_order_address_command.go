package commands

import (
	"context"
	"errors"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/domain/model/order"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"
	"bookstore/internal/pkg/guard"
)

var ErrUpdateOrderAddressCommandIsNotConstructed = errors.New(
	"UpdateOrderAddressCommand must be created via NewUpdateOrderAddressCommand constructor",
)

// UpdateOrderAddressCommand changes the shipping address, the billing address or both.
// An empty address means "keep the current one".
type UpdateOrderAddressCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	shippingAddress string
	billingAddress  string

	guard guard.ConstructorGuard
}

func NewUpdateOrderAddressCommand(
	orderID kernel.UUID,
	shippingAddress, billingAddress string,
) (UpdateOrderAddressCommand, error) {
	if err := orderID.Validate(); err != nil {
		return UpdateOrderAddressCommand{}, err
	}
	if shippingAddress == "" && billingAddress == "" {
		return UpdateOrderAddressCommand{}, errs.NewValueIsRequiredError("shipping or billing address")
	}

	return UpdateOrderAddressCommand{
		orderID:         orderID,
		shippingAddress: shippingAddress,
		billingAddress:  billingAddress,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateOrderAddressCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderAddressCommandIsNotConstructed)
}

func (c UpdateOrderAddressCommand) OrderID() kernel.UUID { return c.orderID }
func (c UpdateOrderAddressCommand) ShippingAddress() string { return c.shippingAddress }
func (c UpdateOrderAddressCommand) BillingAddress() string { return c.billingAddress }

// UpdateOrderAddressCommandHandler rewrites addresses of orders that have not started processing.
type UpdateOrderAddressCommandHandler struct {
	transactor ports.Transactor
}

func NewUpdateOrderAddressCommandHandler(transactor ports.Transactor) UpdateOrderAddressCommandHandler {
	return UpdateOrderAddressCommandHandler{transactor: transactor}
}

func (h *UpdateOrderAddressCommandHandler) Handle(ctx context.Context, cmd UpdateOrderAddressCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return ports.RunAtomicallyWithResult(ctx, h.transactor,
		func(ctx context.Context, scope ports.Repositories) (*order.Order, error) {
			orderRepo, err := scope.OrderRepository()
			if err != nil {
				return nil, err
			}

			current, err := orderRepo.Get(ctx, cmd.OrderID())
			if err != nil {
				return nil, err
			}

			if cmd.ShippingAddress() != "" {
				if err = current.UpdateShippingAddress(cmd.ShippingAddress()); err != nil {
					return nil, err
				}
			}
			if cmd.BillingAddress() != "" {
				if err = current.UpdateBillingAddress(cmd.BillingAddress()); err != nil {
					return nil, err
				}
			}

			if err = orderRepo.Update(ctx, current); err != nil {
				return nil, err
			}
			return current, nil
		})
}

package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrApplyTransitionCommandIsNotConstructed = errors.New(
	"ApplyTransitionCommand must be created via NewApplyTransitionCommand constructor",
)

// ApplyTransitionCommand requests one action of the transition table on an order.
//
// Example:
//
//	cmd, err := commands.NewApplyTransitionCommand(supplier, 42, order.ActionReject,
//	    order.Payload{Reason: "out of stock"})
type ApplyTransitionCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	orderID int64
	action  order.Action
	payload order.Payload

	guard guard.ConstructorGuard
}

func NewApplyTransitionCommand(
	actor kernel.Actor,
	orderID int64,
	action order.Action,
	payload order.Payload,
) (ApplyTransitionCommand, error) {
	if orderID <= 0 {
		return ApplyTransitionCommand{}, errs.NewValidationError("orderId", "is required")
	}
	if err := actor.Role.Validate(); err != nil {
		return ApplyTransitionCommand{}, err
	}
	if err := action.Validate(); err != nil {
		return ApplyTransitionCommand{}, err
	}

	return ApplyTransitionCommand{
		actor:   actor,
		orderID: orderID,
		action:  action,
		payload: payload,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ApplyTransitionCommand) Validate() error {
	return c.guard.Validate(ErrApplyTransitionCommandIsNotConstructed)
}

func (c ApplyTransitionCommand) Actor() kernel.Actor { return c.actor }

func (c ApplyTransitionCommand) OrderID() int64 { return c.orderID }

func (c ApplyTransitionCommand) Action() order.Action { return c.action }

func (c ApplyTransitionCommand) Payload() order.Payload { return c.payload }

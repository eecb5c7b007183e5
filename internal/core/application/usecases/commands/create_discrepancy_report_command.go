package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrCreateDiscrepancyReportCommandIsNotConstructed = errors.New(
	"CreateDiscrepancyReportCommand must be created via NewCreateDiscrepancyReportCommand constructor",
)

// CreateDiscrepancyReportCommand files the received quantities of a delivered order.
type CreateDiscrepancyReportCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	orderID int64
	lines   []order.DiscrepancyLine
	notes   string

	guard guard.ConstructorGuard
}

func NewCreateDiscrepancyReportCommand(
	actor kernel.Actor,
	orderID int64,
	lines []order.DiscrepancyLine,
	notes string,
) (CreateDiscrepancyReportCommand, error) {
	if orderID <= 0 {
		return CreateDiscrepancyReportCommand{}, errs.NewValidationError("orderId", "is required")
	}
	return CreateDiscrepancyReportCommand{
		actor:   actor,
		orderID: orderID,
		lines:   lines,
		notes:   notes,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CreateDiscrepancyReportCommand) Validate() error {
	return c.guard.Validate(ErrCreateDiscrepancyReportCommandIsNotConstructed)
}

func (c CreateDiscrepancyReportCommand) Actor() kernel.Actor { return c.actor }

func (c CreateDiscrepancyReportCommand) OrderID() int64 { return c.orderID }

func (c CreateDiscrepancyReportCommand) Lines() []order.DiscrepancyLine { return c.lines }

func (c CreateDiscrepancyReportCommand) Notes() string { return c.notes }

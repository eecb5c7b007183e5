package commands

import (
	"context"

	"orderflow/internal/core/domain/model/discrepancy"
	"orderflow/internal/core/domain/model/order"
)

// TransitionHandler is the part of ApplyTransitionCommandHandler other
// handlers build on.
type TransitionHandler interface {
	Handle(ctx context.Context, cmd ApplyTransitionCommand) (TransitionResult, error)
}

// CreateDiscrepancyReportCommandHandler files a report through the
// report-discrepancy transition, so the report and AWAITING_CORRECTION are
// committed together or not at all.
type CreateDiscrepancyReportCommandHandler struct {
	transitions TransitionHandler
}

func NewCreateDiscrepancyReportCommandHandler(transitions TransitionHandler) CreateDiscrepancyReportCommandHandler {
	return CreateDiscrepancyReportCommandHandler{transitions: transitions}
}

func (h *CreateDiscrepancyReportCommandHandler) Handle(
	ctx context.Context,
	cmd CreateDiscrepancyReportCommand,
) (*discrepancy.Report, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	transition, err := NewApplyTransitionCommand(cmd.Actor(), cmd.OrderID(), order.ActionReportDiscrepancy, order.Payload{
		Notes:            cmd.Notes(),
		DiscrepancyLines: cmd.Lines(),
	})
	if err != nil {
		return nil, err
	}

	res, err := h.transitions.Handle(ctx, transition)
	if err != nil {
		return nil, err
	}
	return res.Report, nil
}

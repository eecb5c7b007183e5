package commands

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/discrepancy"
	"orderflow/internal/core/domain/model/effect"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"
)

// TransitionResult is what a committed transition produced.
type TransitionResult struct {
	Order       *order.Order
	Transitions []order.Transition
	// Report is set for report-discrepancy only.
	Report  *discrepancy.Report
	Effects []effect.Effect
}

// ApplyTransitionCommandHandler runs a transition and records everything it
// causes in one transaction: the order row, its history, the discrepancy
// report and the outbox effects. Effects run later through the relay, so an
// effect failure never reverts the transition.
type ApplyTransitionCommandHandler struct {
	uowFactory UoWFactory
	planner    services.SideEffectPlanner
	logger     *slog.Logger
	now        func() time.Time
}

func NewApplyTransitionCommandHandler(
	uowFactory UoWFactory,
	planner services.SideEffectPlanner,
	logger *slog.Logger,
) ApplyTransitionCommandHandler {
	return ApplyTransitionCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
		logger:     logger.With("component", "ApplyTransitionCommandHandler"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (h *ApplyTransitionCommandHandler) Handle(ctx context.Context, cmd ApplyTransitionCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return TransitionResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return TransitionResult{}, err
	}
	actor := cmd.Actor()
	if !o.IsVisibleTo(actor) {
		return TransitionResult{}, errs.NewObjectNotFoundError("orderId", cmd.OrderID())
	}

	now := h.now()
	payload := cmd.Payload()

	// The report is computed before Apply so that bad lines leave the order untouched.
	var report *discrepancy.Report
	if cmd.Action() == order.ActionReportDiscrepancy {
		if !order.Can(o, actor, cmd.Action()) {
			return TransitionResult{}, errs.NewInvalidTransitionError(
				cmd.Action().String(), o.Status().String(), actor.Role.String())
		}
		report, err = discrepancy.Compute(o, payload.DiscrepancyLines, payload.Notes, actor, now)
		if err != nil {
			return TransitionResult{}, err
		}
	}

	from := o.Status()
	steps, err := o.Apply(cmd.Action(), actor, payload, now)
	if err != nil {
		return TransitionResult{}, err
	}
	if err := repo.Update(ctx, o); err != nil {
		return TransitionResult{}, err
	}
	if err := uow.HistoryRepository().Append(ctx, o.ID(), steps); err != nil {
		return TransitionResult{}, err
	}

	opts := services.PlanOptions{GenerateWaybill: payload.GenerateWaybill}
	if report != nil {
		if err := uow.DiscrepancyRepository().Add(ctx, report); err != nil {
			return TransitionResult{}, err
		}
		opts.ReportID = report.ID()
	}

	effects, err := h.planner.Plan(o, cmd.Action(), actor, opts)
	if err != nil {
		return TransitionResult{}, err
	}
	if len(effects) > 0 {
		if err := uow.Outbox().Enqueue(ctx, effects); err != nil {
			return TransitionResult{}, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}

	h.logger.InfoContext(ctx, "order transitioned",
		"order_id", o.ID(),
		"action", cmd.Action().String(),
		"from", from.String(),
		"to", o.Status().String(),
		"actor", actor.String(),
		"effects", len(effects),
	)
	return TransitionResult{Order: o, Transitions: steps, Report: report, Effects: effects}, nil
}

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/document"
	"orderflow/internal/core/domain/model/effect"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
)

// DocumentGenerator is the part of GenerateDocumentCommandHandler the relay uses.
type DocumentGenerator interface {
	Handle(ctx context.Context, cmd GenerateDocumentCommand) (*document.Document, error)
}

// DispatchObserver is told the outcome of every relayed effect.
type DispatchObserver interface {
	EffectDispatched(kind effect.Kind)
	EffectFailed(kind effect.Kind)
}

type noopObserver struct{}

func (noopObserver) EffectDispatched(effect.Kind) {}
func (noopObserver) EffectFailed(effect.Kind) {}

// DispatchReport counts what one batch did.
type DispatchReport struct {
	Claimed    int
	Dispatched int
	Failed     int
}

// DispatchSideEffectsCommandHandler claims a batch of outbox events and
// executes them. The claimed rows stay locked until the batch commits, so
// several relays never run the same event at once. A failing effect is
// logged and retried on a later batch until it runs out of attempts.
type DispatchSideEffectsCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	documents  DocumentGenerator
	observer   DispatchObserver
	logger     *slog.Logger
}

func NewDispatchSideEffectsCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	documents DocumentGenerator,
	observer DispatchObserver,
	logger *slog.Logger,
) DispatchSideEffectsCommandHandler {
	if observer == nil {
		observer = noopObserver{}
	}
	return DispatchSideEffectsCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		documents:  documents,
		observer:   observer,
		logger:     logger.With("component", "DispatchSideEffectsCommandHandler"),
	}
}

func (h *DispatchSideEffectsCommandHandler) Handle(ctx context.Context, cmd DispatchSideEffectsCommand) (DispatchReport, error) {
	if err := cmd.Validate(); err != nil {
		return DispatchReport{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DispatchReport{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outbox := uow.Outbox()
	events, err := outbox.Claim(ctx, cmd.BatchSize(), cmd.MaxAttempts())
	if err != nil {
		return DispatchReport{}, err
	}

	report := DispatchReport{Claimed: len(events)}
	for _, ev := range events {
		if execErr := h.execute(ctx, ev.Effect); execErr != nil {
			h.logger.WarnContext(ctx, "side effect failed",
				"event_id", ev.EventID.String(),
				"order_id", ev.Effect.OrderID,
				"effect", ev.Effect.String(),
				"attempt", ev.Attempts+1,
				"error", execErr,
			)
			if err := outbox.MarkFailed(ctx, ev.ID, execErr); err != nil {
				return report, err
			}
			h.observer.EffectFailed(ev.Effect.Kind)
			report.Failed++
			continue
		}
		if err := outbox.MarkDispatched(ctx, ev.ID, time.Now().UTC()); err != nil {
			return report, err
		}
		h.observer.EffectDispatched(ev.Effect.Kind)
		report.Dispatched++
	}

	if err := uow.Commit(ctx); err != nil {
		return report, err
	}
	return report, nil
}

func (h *DispatchSideEffectsCommandHandler) execute(ctx context.Context, e effect.Effect) error {
	switch e.Kind {
	case effect.KindNotify:
		return h.notifier.Notify(ctx, e)
	case effect.KindGenerateDocument:
		cmd, err := NewGenerateDocumentCommand(kernel.Actor{Role: e.Actor.Role, ID: e.Actor.ID}, e.Document, e.OrderID, e.ReportID)
		if err != nil {
			return err
		}
		_, err = h.documents.Handle(ctx, cmd)
		return err
	default:
		return fmt.Errorf("unsupported effect kind %q", e.Kind)
	}
}

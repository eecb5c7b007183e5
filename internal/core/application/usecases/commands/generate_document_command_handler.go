package commands

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/discrepancy"
	"orderflow/internal/core/domain/model/document"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// GenerateDocumentCommandHandler renders and stores a document once per
// kind, order and report. Later requests get the stored record back.
type GenerateDocumentCommandHandler struct {
	uowFactory UoWFactory
	renderer   ports.DocumentRenderer
	storage    ports.DocumentStorage
}

func NewGenerateDocumentCommandHandler(
	uowFactory UoWFactory,
	renderer ports.DocumentRenderer,
	storage ports.DocumentStorage,
) GenerateDocumentCommandHandler {
	return GenerateDocumentCommandHandler{uowFactory: uowFactory, renderer: renderer, storage: storage}
}

func (h *GenerateDocumentCommandHandler) Handle(ctx context.Context, cmd GenerateDocumentCommand) (*document.Document, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if !o.IsVisibleTo(cmd.Actor()) {
		return nil, errs.NewObjectNotFoundError("orderId", cmd.OrderID())
	}

	req := cmd.Request()
	docs := uow.DocumentRepository()
	existing, err := docs.Find(ctx, req)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, errs.ErrObjectNotFound):
		return nil, err
	}

	if err := req.Validate(o); err != nil {
		return nil, err
	}
	report, err := h.reportFor(ctx, uow, &req, o)
	if err != nil {
		return nil, err
	}

	doc := document.New(req, cmd.Actor(), time.Now().UTC())
	data, err := h.renderer.Render(doc, o, report)
	if err != nil {
		return nil, err
	}
	doc.Size = int64(len(data))
	if err := h.storage.Put(ctx, doc.StorageKey, doc.ContentType, data); err != nil {
		return nil, err
	}

	// A concurrent request may have stored the same document meanwhile. Add
	// then returns that record, and both requests wrote the same key.
	stored, err := docs.Add(ctx, doc)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return stored, nil
}

// reportFor loads the report of an act and sets the act's sequence within
// the order.
func (h *GenerateDocumentCommandHandler) reportFor(
	ctx context.Context,
	uow UoW,
	req *document.Request,
	o *order.Order,
) (*discrepancy.Report, error) {
	if req.Kind != document.KindDiscrepancyAct {
		return nil, nil //nolint:nilnil // only acts carry a report
	}
	reports := uow.DiscrepancyRepository()
	report, err := reports.Get(ctx, req.ReportID)
	if err != nil {
		return nil, err
	}
	if report.OrderID() != o.ID() {
		return nil, errs.NewObjectNotFoundError("reportId", req.ReportID)
	}
	seq, err := reports.Position(ctx, o.ID(), report.ID())
	if err != nil {
		return nil, err
	}
	req.Sequence = seq
	return report, nil
}

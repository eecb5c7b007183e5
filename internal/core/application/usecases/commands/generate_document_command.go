package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/document"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrGenerateDocumentCommandIsNotConstructed = errors.New(
	"GenerateDocumentCommand must be created via NewGenerateDocumentCommand constructor",
)

// GenerateDocumentCommand asks for a document of an order. reportID is set
// for discrepancy acts only.
type GenerateDocumentCommand struct { //nolint:recvcheck //using for validation
	actor    kernel.Actor
	kind     document.Kind
	orderID  int64
	reportID int64

	guard guard.ConstructorGuard
}

func NewGenerateDocumentCommand(
	actor kernel.Actor,
	kind document.Kind,
	orderID int64,
	reportID int64,
) (GenerateDocumentCommand, error) {
	if _, err := document.KindFromString(kind.String()); err != nil {
		return GenerateDocumentCommand{}, errs.NewValidationError("kind", err.Error())
	}
	if orderID <= 0 {
		return GenerateDocumentCommand{}, errs.NewValidationError("orderId", "is required")
	}
	if reportID < 0 {
		return GenerateDocumentCommand{}, errs.NewValidationError("reportId", "must not be negative")
	}

	return GenerateDocumentCommand{
		actor:    actor,
		kind:     kind,
		orderID:  orderID,
		reportID: reportID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c GenerateDocumentCommand) Validate() error {
	return c.guard.Validate(ErrGenerateDocumentCommandIsNotConstructed)
}

func (c GenerateDocumentCommand) Actor() kernel.Actor { return c.actor }

func (c GenerateDocumentCommand) Kind() document.Kind { return c.kind }

func (c GenerateDocumentCommand) OrderID() int64 { return c.orderID }

func (c GenerateDocumentCommand) ReportID() int64 { return c.reportID }

// Request is the document target of the command.
func (c GenerateDocumentCommand) Request() document.Request {
	return document.Request{Kind: c.kind, OrderID: c.orderID, ReportID: c.reportID}
}

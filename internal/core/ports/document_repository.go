package ports

import (
	"context"

	"orderflow/internal/core/domain/model/document"
	"orderflow/internal/core/domain/model/kernel"
)

// DocumentRepository keeps one record per generated document.
type DocumentRepository interface {
	// Find returns the document matching req or errs.ObjectNotFoundError.
	Find(ctx context.Context, req document.Request) (*document.Document, error)

	// Add stores doc unless a document for the same kind, order and report
	// already exists, in which case the existing record is returned.
	Add(ctx context.Context, doc *document.Document) (*document.Document, error)

	Get(ctx context.Context, id kernel.UUID) (*document.Document, error)
}

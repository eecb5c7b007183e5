package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/discrepancy"
	"orderflow/internal/core/domain/model/document"
	"orderflow/internal/core/domain/model/effect"
	"orderflow/internal/core/domain/model/order"
)

// Notifier delivers a notify effect to its audience.
type Notifier interface {
	Notify(ctx context.Context, e effect.Effect) error
}

// DocumentRenderer produces the file content of a document. report is nil
// for every kind except the discrepancy act.
type DocumentRenderer interface {
	Render(doc *document.Document, o *order.Order, report *discrepancy.Report) ([]byte, error)
}

// DocumentStorage keeps rendered files.
type DocumentStorage interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

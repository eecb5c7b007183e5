package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListDocumentsQueryHandler struct {
	db *gorm.DB
}

func NewListDocumentsQueryHandler(db *gorm.DB) ListDocumentsQueryHandler {
	return ListDocumentsQueryHandler{db: db}
}

func (h ListDocumentsQueryHandler) Handle(ctx context.Context, query ListDocumentsQuery) ([]DocumentView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := authorize(ctx, h.db, query.actor, query.orderID); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			kind,
			order_id,
			report_id,
			number,
			content_type,
			size,
			generated_at
		FROM generated_documents
		WHERE order_id = ?
		ORDER BY generated_at, number
	`, query.orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]DocumentView, 0)
	for rows.Next() {
		var d DocumentView
		var id uuid.UUID
		if err = rows.Scan(
			&id,
			&d.Kind,
			&d.OrderID,
			&d.ReportID,
			&d.Number,
			&d.ContentType,
			&d.Size,
			&d.GeneratedAt,
		); err != nil {
			return nil, err
		}
		d.ID = id.String()
		docs = append(docs, d)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

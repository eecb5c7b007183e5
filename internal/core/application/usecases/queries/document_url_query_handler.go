package queries

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

type DocumentURLQueryHandler struct {
	db      *gorm.DB
	storage ports.DocumentStorage
	ttl     time.Duration
}

func NewDocumentURLQueryHandler(db *gorm.DB, storage ports.DocumentStorage, ttl time.Duration) DocumentURLQueryHandler {
	return DocumentURLQueryHandler{db: db, storage: storage, ttl: ttl}
}

func (h DocumentURLQueryHandler) Handle(ctx context.Context, query DocumentURLQuery) (DocumentURL, error) {
	if err := query.Validate(); err != nil {
		return DocumentURL{}, err
	}

	var doc struct {
		OrderID    int64
		StorageKey string
	}
	res := h.db.WithContext(ctx).
		Raw(`SELECT order_id, storage_key FROM generated_documents WHERE id = ?`, query.documentID.Bytes()).
		Scan(&doc)
	if res.Error != nil {
		return DocumentURL{}, res.Error
	}
	notFound := errs.NewObjectNotFoundError("documentId", query.documentID.String())
	if res.RowsAffected == 0 {
		return DocumentURL{}, notFound
	}
	if err := authorize(ctx, h.db, query.actor, doc.OrderID); err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return DocumentURL{}, notFound
		}
		return DocumentURL{}, err
	}

	expires := time.Now().UTC().Add(h.ttl)
	url, err := h.storage.PresignedURL(ctx, doc.StorageKey, h.ttl)
	if err != nil {
		return DocumentURL{}, err
	}
	return DocumentURL{URL: url, ExpiresAt: expires}, nil
}

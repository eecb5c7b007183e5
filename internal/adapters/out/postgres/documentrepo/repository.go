// Package documentrepo keeps the records of generated documents.
package documentrepo

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/document"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentDTO is a row of generated_documents. ReportID is 0 for every kind
// but the discrepancy act so the unique target index also covers them.
type DocumentDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind            string    `gorm:"size:24;not null;uniqueIndex:idx_generated_documents_target"`
	OrderID         int64     `gorm:"not null;uniqueIndex:idx_generated_documents_target;index"`
	ReportID        int64     `gorm:"not null;default:0;uniqueIndex:idx_generated_documents_target"`
	Number          string    `gorm:"size:64;not null"`
	StorageKey      string    `gorm:"not null"`
	ContentType     string    `gorm:"size:128;not null"`
	Size            int64
	GeneratedAt     time.Time
	GeneratedByRole string `gorm:"size:16;not null"`
	GeneratedByID   int64  `gorm:"not null"`
}

func (DocumentDTO) TableName() string {
	return "generated_documents"
}

func fromDomain(d *document.Document) DocumentDTO {
	return DocumentDTO{
		ID:              d.ID.Bytes(),
		Kind:            d.Kind.String(),
		OrderID:         d.OrderID,
		ReportID:        d.ReportID,
		Number:          d.Number,
		StorageKey:      d.StorageKey,
		ContentType:     d.ContentType,
		Size:            d.Size,
		GeneratedAt:     d.GeneratedAt,
		GeneratedByRole: d.GeneratedBy.Role.String(),
		GeneratedByID:   d.GeneratedBy.ID,
	}
}

func toDomain(dto DocumentDTO) (*document.Document, error) {
	id, err := kernel.UUIDFromString(dto.ID.String())
	if err != nil {
		return nil, err
	}
	kind, err := document.KindFromString(dto.Kind)
	if err != nil {
		return nil, err
	}
	return &document.Document{
		ID:          id,
		Kind:        kind,
		OrderID:     dto.OrderID,
		ReportID:    dto.ReportID,
		Number:      dto.Number,
		StorageKey:  dto.StorageKey,
		ContentType: dto.ContentType,
		Size:        dto.Size,
		GeneratedAt: dto.GeneratedAt,
		GeneratedBy: kernel.Actor{Role: kernel.Role(dto.GeneratedByRole), ID: dto.GeneratedByID},
	}, nil
}

type GormDocumentRepository struct {
	db *gorm.DB
}

func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

func (r *GormDocumentRepository) Find(ctx context.Context, req document.Request) (*document.Document, error) {
	var dto DocumentDTO
	err := r.db.WithContext(ctx).
		Where("kind = ? AND order_id = ? AND report_id = ?", req.Kind.String(), req.OrderID, req.ReportID).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("document", req.Kind.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

// Add inserts doc. When a concurrent writer already stored the same target
// the insert is skipped and the winner's record is returned.
func (r *GormDocumentRepository) Add(ctx context.Context, doc *document.Document) (*document.Document, error) {
	dto := fromDomain(doc)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kind"}, {Name: "order_id"}, {Name: "report_id"}},
			DoNothing: true,
		}).
		Create(&dto)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return r.Find(ctx, document.Request{Kind: doc.Kind, OrderID: doc.OrderID, ReportID: doc.ReportID})
	}
	return doc, nil
}

func (r *GormDocumentRepository) Get(ctx context.Context, id kernel.UUID) (*document.Document, error) {
	var dto DocumentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("document", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

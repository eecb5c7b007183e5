package discrepancyrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/discrepancy"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormDiscrepancyRepository struct {
	db *gorm.DB
}

func NewGormDiscrepancyRepository(db *gorm.DB) *GormDiscrepancyRepository {
	return &GormDiscrepancyRepository{db: db}
}

func (r *GormDiscrepancyRepository) Add(ctx context.Context, report *discrepancy.Report) error {
	dto := fromDomain(report)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	report.AssignID(dto.ID)
	return nil
}

func (r *GormDiscrepancyRepository) Position(ctx context.Context, orderID, reportID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&ReportDTO{}).
		Where("order_id = ? AND id <= ?", orderID, reportID).
		Count(&n).Error
	return n, err
}

func (r *GormDiscrepancyRepository) Get(ctx context.Context, id int64) (*discrepancy.Report, error) {
	var dto ReportDTO
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&dto, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("discrepancy report", id)
		}
		return nil, err
	}
	return toDomain(dto), nil
}

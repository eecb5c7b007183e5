// Package discrepancyrepo persists discrepancy reports and their items.
package discrepancyrepo

import (
	"time"

	"orderflow/internal/core/domain/model/discrepancy"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

type ReportDTO struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	OrderID       int64           `gorm:"not null;index"`
	OrderNumber   string          `gorm:"size:32;not null"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status        string          `gorm:"size:16;not null"`
	Notes         string
	CreatedByRole string    `gorm:"size:16;not null"`
	CreatedByID   int64     `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime:false"`

	Items []ItemDTO `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
}

func (ReportDTO) TableName() string {
	return "discrepancy_reports"
}

type ItemDTO struct {
	ID               int64           `gorm:"primaryKey;autoIncrement"`
	ReportID         int64           `gorm:"not null;index"`
	OrderItemID      int64           `gorm:"not null"`
	ProductName      string          `gorm:"size:255"`
	ProductSKU       string          `gorm:"column:product_sku;size:64"`
	ExpectedQuantity int64           `gorm:"not null"`
	ActualQuantity   int64           `gorm:"not null"`
	Discrepancy      int64           `gorm:"not null"`
	UnitPrice        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Amount           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Reason           string          `gorm:"not null"`
}

func (ItemDTO) TableName() string {
	return "discrepancy_report_items"
}

func fromDomain(r *discrepancy.Report) ReportDTO {
	items := make([]ItemDTO, 0, len(r.Items()))
	for _, it := range r.Items() {
		items = append(items, ItemDTO{
			OrderItemID:      it.OrderItemID,
			ProductName:      it.ProductName,
			ProductSKU:       it.ProductSKU,
			ExpectedQuantity: it.ExpectedQuantity,
			ActualQuantity:   it.ActualQuantity,
			Discrepancy:      it.Discrepancy,
			UnitPrice:        it.UnitPrice.Decimal(),
			Amount:           it.Amount.Decimal(),
			Reason:           it.Reason,
		})
	}
	return ReportDTO{
		ID:            r.ID(),
		OrderID:       r.OrderID(),
		OrderNumber:   r.OrderNumber(),
		TotalAmount:   r.TotalAmount().Decimal(),
		Status:        string(r.Status()),
		Notes:         r.Notes(),
		CreatedByRole: r.CreatedBy().Role.String(),
		CreatedByID:   r.CreatedBy().ID,
		CreatedAt:     r.CreatedAt(),
		Items:         items,
	}
}

func toDomain(dto ReportDTO) *discrepancy.Report {
	items := make([]discrepancy.Item, 0, len(dto.Items))
	for _, it := range dto.Items {
		items = append(items, discrepancy.Item{
			OrderItemID:      it.OrderItemID,
			ProductName:      it.ProductName,
			ProductSKU:       it.ProductSKU,
			ExpectedQuantity: it.ExpectedQuantity,
			ActualQuantity:   it.ActualQuantity,
			Discrepancy:      it.Discrepancy,
			UnitPrice:        kernel.MoneyFromDecimal(it.UnitPrice),
			Amount:           kernel.MoneyFromDecimal(it.Amount),
			Reason:           it.Reason,
		})
	}
	return discrepancy.Restore(discrepancy.Snapshot{
		ID:          dto.ID,
		OrderID:     dto.OrderID,
		OrderNumber: dto.OrderNumber,
		Items:       items,
		Total:       kernel.MoneyFromDecimal(dto.TotalAmount),
		Status:      discrepancy.Status(dto.Status),
		Notes:       dto.Notes,
		CreatedAt:   dto.CreatedAt,
		CreatedBy:   kernel.Actor{Role: kernel.Role(dto.CreatedByRole), ID: dto.CreatedByID},
	})
}

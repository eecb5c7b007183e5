// Package orderrepo persists the Order aggregate and its items.
package orderrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderDTO is the row of the orders table. Items live in order_items.
type OrderDTO struct {
	ID                   int64           `gorm:"primaryKey;autoIncrement"`
	Number               string          `gorm:"size:32;not null;uniqueIndex"`
	SupplierID           int64           `gorm:"not null;index"`
	SupplierName         string          `gorm:"size:255"`
	CustomerID           int64           `gorm:"not null;index"`
	CustomerName         string          `gorm:"size:255"`
	Status               string          `gorm:"size:40;not null;index"`
	TotalAmount          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	VATAmount            decimal.Decimal `gorm:"column:vat_amount;type:numeric(14,2);not null"`
	DeliveryAddress      string          `gorm:"not null"`
	DesiredDeliveryDate  time.Time
	ActualDeliveryDate   *time.Time
	PaymentDocumentRef   string
	PaymentReference     string
	PaymentNotes         string
	PaymentSubmittedAt   *time.Time
	RejectionReason      string
	PaymentProblemReason string
	Notes                string
	Version              int64     `gorm:"not null;default:0"`
	CreatedAt            time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime:false"`

	Items []ItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is a row of order_items. Line totals are stored for reporting
// queries; the domain recomputes them from price and quantity.
type ItemDTO struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	OrderID     int64           `gorm:"not null;index"`
	ProductID   int64           `gorm:"not null"`
	ProductName string          `gorm:"size:255;not null"`
	ProductSKU  string          `gorm:"column:product_sku;size:64"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	VATRate     decimal.Decimal `gorm:"column:vat_rate;type:numeric(5,2);not null"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	LineVAT     decimal.Decimal `gorm:"column:line_vat;type:numeric(14,2);not null"`
}

func (ItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:                   o.ID(),
		Number:               o.Number(),
		SupplierID:           o.SupplierID(),
		SupplierName:         o.SupplierName(),
		CustomerID:           o.CustomerID(),
		CustomerName:         o.CustomerName(),
		Status:               o.Status().String(),
		TotalAmount:          o.TotalAmount().Decimal(),
		VATAmount:            o.VATAmount().Decimal(),
		DeliveryAddress:      o.DeliveryAddress(),
		DesiredDeliveryDate:  o.DesiredDeliveryDate(),
		ActualDeliveryDate:   o.ActualDeliveryDate(),
		RejectionReason:      o.RejectionReason(),
		PaymentProblemReason: o.PaymentProblemReason(),
		Notes:                o.Notes(),
		Version:              o.Version(),
		CreatedAt:            o.CreatedAt(),
		UpdatedAt:            o.UpdatedAt(),
		Items:                itemsFromDomain(o.ID(), o.Items()),
	}
	if p := o.PaymentProof(); p != nil {
		submitted := p.SubmittedAt
		dto.PaymentDocumentRef = p.DocumentReference
		dto.PaymentReference = p.PaymentReference
		dto.PaymentNotes = p.Notes
		dto.PaymentSubmittedAt = &submitted
	}
	return dto
}

func itemsFromDomain(orderID int64, items []*order.Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, ItemDTO{
			ID:          it.ID(),
			OrderID:     orderID,
			ProductID:   it.ProductID(),
			ProductName: it.Name(),
			ProductSKU:  it.SKU(),
			Quantity:    it.Quantity(),
			UnitPrice:   it.UnitPrice().Decimal(),
			VATRate:     it.VATRate(),
			LineTotal:   it.LineTotal().Decimal(),
			LineVAT:     it.LineVAT().Decimal(),
		})
	}
	return out
}

// stateColumns lists the order columns a transition may change. Money is
// not among them: only item replacement rewrites totals.
func stateColumns(dto OrderDTO) map[string]any {
	return map[string]any{
		"status":                 dto.Status,
		"actual_delivery_date":   dto.ActualDeliveryDate,
		"payment_document_ref":   dto.PaymentDocumentRef,
		"payment_reference":      dto.PaymentReference,
		"payment_notes":          dto.PaymentNotes,
		"payment_submitted_at":   dto.PaymentSubmittedAt,
		"rejection_reason":       dto.RejectionReason,
		"payment_problem_reason": dto.PaymentProblemReason,
		"updated_at":             dto.UpdatedAt,
	}
}

// itemColumns are the order columns rewritten together with its items.
func itemColumns(dto OrderDTO) map[string]any {
	return map[string]any{
		"total_amount": dto.TotalAmount,
		"vat_amount":   dto.VATAmount,
		"updated_at":   dto.UpdatedAt,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, it := range dto.Items {
		items = append(items, order.RestoreItem(it.ID, order.ItemLine{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			SKU:       it.ProductSKU,
			Quantity:  it.Quantity,
			UnitPrice: kernel.MoneyFromDecimal(it.UnitPrice),
			VATRate:   it.VATRate,
		}))
	}

	var proof *order.PaymentProof
	if dto.PaymentSubmittedAt != nil {
		proof = &order.PaymentProof{
			DocumentReference: dto.PaymentDocumentRef,
			PaymentReference:  dto.PaymentReference,
			Notes:             dto.PaymentNotes,
			SubmittedAt:       *dto.PaymentSubmittedAt,
		}
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                   dto.ID,
		Number:               dto.Number,
		SupplierID:           dto.SupplierID,
		SupplierName:         dto.SupplierName,
		CustomerID:           dto.CustomerID,
		CustomerName:         dto.CustomerName,
		Status:               status,
		Items:                items,
		DeliveryAddress:      dto.DeliveryAddress,
		DesiredDeliveryDate:  dto.DesiredDeliveryDate,
		ActualDeliveryDate:   dto.ActualDeliveryDate,
		PaymentProof:         proof,
		RejectionReason:      dto.RejectionReason,
		PaymentProblemReason: dto.PaymentProblemReason,
		Notes:                dto.Notes,
		CreatedAt:            dto.CreatedAt,
		UpdatedAt:            dto.UpdatedAt,
		Version:              dto.Version,
	})
}

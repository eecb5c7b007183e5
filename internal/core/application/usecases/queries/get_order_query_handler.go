package queries

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

type orderRow struct {
	ID                   int64
	Number               string
	SupplierID           int64
	SupplierName         string
	CustomerID           int64
	CustomerName         string
	Status               string
	TotalAmount          decimal.Decimal
	VATAmount            decimal.Decimal
	DeliveryAddress      string
	DesiredDeliveryDate  time.Time
	ActualDeliveryDate   *time.Time
	PaymentDocumentRef   string
	PaymentReference     string
	PaymentNotes         string
	PaymentSubmittedAt   *time.Time
	RejectionReason      string
	PaymentProblemReason string
	Notes                string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	Version              int64
}

const selectOrder = `
	SELECT
		id, number, supplier_id, supplier_name, customer_id, customer_name,
		status, total_amount, vat_amount, delivery_address,
		desired_delivery_date, actual_delivery_date,
		payment_document_ref, payment_reference, payment_notes, payment_submitted_at,
		rejection_reason, payment_problem_reason, notes,
		created_at, updated_at, version
	FROM orders`

// Handle returns errs.ObjectNotFoundError for unknown orders and for orders
// the actor is not a party of.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderDetail, error) {
	if err := query.Validate(); err != nil {
		return OrderDetail{}, err
	}

	var row orderRow
	var res *gorm.DB
	var notFound error
	if query.number != "" {
		res = h.db.WithContext(ctx).Raw(selectOrder+` WHERE number = ?`, query.number).Scan(&row)
		notFound = errs.NewObjectNotFoundError("orderNumber", query.number)
	} else {
		res = h.db.WithContext(ctx).Raw(selectOrder+` WHERE id = ?`, query.id).Scan(&row)
		notFound = errs.NewObjectNotFoundError("orderId", query.id)
	}
	if res.Error != nil {
		return OrderDetail{}, res.Error
	}
	if res.RowsAffected == 0 {
		return OrderDetail{}, notFound
	}

	o, err := partiesOf(row.ID, row.SupplierID, row.CustomerID, row.Status)
	if err != nil {
		return OrderDetail{}, err
	}
	if !o.IsVisibleTo(query.actor) {
		return OrderDetail{}, notFound
	}

	items, err := h.items(ctx, row.ID)
	if err != nil {
		return OrderDetail{}, err
	}

	detail := OrderDetail{
		ID:                   row.ID,
		Number:               row.Number,
		SupplierID:           row.SupplierID,
		SupplierName:         row.SupplierName,
		CustomerID:           row.CustomerID,
		CustomerName:         row.CustomerName,
		Status:               o.Status().Presentation(),
		TotalAmount:          row.TotalAmount,
		VATAmount:            row.VATAmount,
		DeliveryAddress:      row.DeliveryAddress,
		DesiredDeliveryDate:  row.DesiredDeliveryDate,
		ActualDeliveryDate:   row.ActualDeliveryDate,
		RejectionReason:      row.RejectionReason,
		PaymentProblemReason: row.PaymentProblemReason,
		Notes:                row.Notes,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
		Version:              row.Version,
		Items:                items,
		AvailableActions:     order.AvailableActions(o, query.actor),
	}
	if detail.AvailableActions == nil {
		detail.AvailableActions = []order.Action{}
	}
	if row.PaymentSubmittedAt != nil {
		detail.PaymentProof = &PaymentProofView{
			DocumentReference: row.PaymentDocumentRef,
			PaymentReference:  row.PaymentReference,
			Notes:             row.PaymentNotes,
			SubmittedAt:       *row.PaymentSubmittedAt,
		}
	}
	return detail, nil
}

func (h GetOrderQueryHandler) items(ctx context.Context, orderID int64) ([]OrderItemView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			product_id,
			product_name,
			product_sku,
			quantity,
			unit_price,
			vat_rate,
			line_total,
			line_vat
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItemView, 0)
	for rows.Next() {
		var it OrderItemView
		if err = rows.Scan(
			&it.ID,
			&it.ProductID,
			&it.ProductName,
			&it.ProductSKU,
			&it.Quantity,
			&it.UnitPrice,
			&it.VATRate,
			&it.LineTotal,
			&it.LineVAT,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

package queries

import (
	"context"

	"gorm.io/gorm"
)

type ListDiscrepancyReportsQueryHandler struct {
	db *gorm.DB
}

func NewListDiscrepancyReportsQueryHandler(db *gorm.DB) ListDiscrepancyReportsQueryHandler {
	return ListDiscrepancyReportsQueryHandler{db: db}
}

// Handle returns the reports of an order, oldest first, with their items.
func (h ListDiscrepancyReportsQueryHandler) Handle(
	ctx context.Context,
	query ListDiscrepancyReportsQuery,
) ([]DiscrepancyReportView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := authorize(ctx, h.db, query.actor, query.orderID); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx)
	rows, err := db.Raw(`
		SELECT
			id,
			order_id,
			order_number,
			status,
			total_amount,
			notes,
			created_by_role,
			created_by_id,
			created_at
		FROM discrepancy_reports
		WHERE order_id = ?
		ORDER BY id
	`, query.orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]DiscrepancyReportView, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var r DiscrepancyReportView
		if err = rows.Scan(
			&r.ID,
			&r.OrderID,
			&r.OrderNumber,
			&r.Status,
			&r.TotalAmount,
			&r.Notes,
			&r.CreatedByRole,
			&r.CreatedByID,
			&r.CreatedAt,
		); err != nil {
			return nil, err
		}
		r.Items = make([]DiscrepancyItemView, 0)
		index[r.ID] = len(reports)
		reports = append(reports, r)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return reports, nil
	}

	itemRows, err := db.Raw(`
		SELECT
			i.report_id,
			i.order_item_id,
			i.product_name,
			i.product_sku,
			i.expected_quantity,
			i.actual_quantity,
			i.discrepancy,
			i.unit_price,
			i.amount,
			i.reason
		FROM discrepancy_report_items i
		JOIN discrepancy_reports r ON r.id = i.report_id
		WHERE r.order_id = ?
		ORDER BY i.id
	`, query.orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var reportID int64
		var it DiscrepancyItemView
		if err = itemRows.Scan(
			&reportID,
			&it.OrderItemID,
			&it.ProductName,
			&it.ProductSKU,
			&it.ExpectedQuantity,
			&it.ActualQuantity,
			&it.Discrepancy,
			&it.UnitPrice,
			&it.Amount,
			&it.Reason,
		); err != nil {
			return nil, err
		}
		if i, ok := index[reportID]; ok {
			reports[i].Items = append(reports[i].Items, it)
		}
	}
	if err = itemRows.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

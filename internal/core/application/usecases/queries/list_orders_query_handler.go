package queries

import (
	"context"

	"orderflow/internal/core/domain/model/order"

	"gorm.io/gorm"
)

type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (Page[OrderSummary], error) {
	if err := query.Validate(); err != nil {
		return Page[OrderSummary]{}, err
	}

	where, args := scope(query.actor)
	if query.status != order.Unknown {
		where += " AND o.status = ?"
		args = append(args, query.status.String())
	}

	db := h.db.WithContext(ctx)
	var total int64
	if err := db.Raw(`SELECT COUNT(*) FROM orders o WHERE `+where, args...).Scan(&total).Error; err != nil {
		return Page[OrderSummary]{}, err
	}

	pageArgs := append(append([]any{}, args...), query.size, (query.page-1)*query.size)
	rows, err := db.Raw(`
		SELECT
			o.id,
			o.number,
			o.supplier_id,
			o.supplier_name,
			o.customer_id,
			o.customer_name,
			o.status,
			o.total_amount,
			o.desired_delivery_date,
			o.created_at
		FROM orders o
		WHERE `+where+`
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT ? OFFSET ?
	`, pageArgs...).Rows()
	if err != nil {
		return Page[OrderSummary]{}, err
	}
	defer rows.Close()

	items := make([]OrderSummary, 0)
	for rows.Next() {
		var s OrderSummary
		var status string
		if err = rows.Scan(
			&s.ID,
			&s.Number,
			&s.SupplierID,
			&s.SupplierName,
			&s.CustomerID,
			&s.CustomerName,
			&status,
			&s.TotalAmount,
			&s.DesiredDeliveryDate,
			&s.CreatedAt,
		); err != nil {
			return Page[OrderSummary]{}, err
		}
		st, stErr := order.StatusFromString(status)
		if stErr != nil {
			return Page[OrderSummary]{}, stErr
		}
		s.Status = st.Presentation()
		items = append(items, s)
	}
	if err = rows.Err(); err != nil {
		return Page[OrderSummary]{}, err
	}

	return Page[OrderSummary]{Items: items, Page: query.page, Size: query.size, Total: total}, nil
}

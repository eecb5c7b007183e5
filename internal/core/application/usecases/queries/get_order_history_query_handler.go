package queries

import (
	"context"

	"orderflow/internal/core/domain/model/order"

	"gorm.io/gorm"
)

type GetOrderHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderHistoryQueryHandler(db *gorm.DB) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db}
}

// Handle returns the status changes of an order in the order they happened.
func (h GetOrderHistoryQueryHandler) Handle(ctx context.Context, query GetOrderHistoryQuery) ([]HistoryEntry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := authorize(ctx, h.db, query.actor, query.orderID); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			action,
			from_status,
			to_status,
			actor_role,
			actor_id,
			note,
			created_at
		FROM order_history
		WHERE order_id = ?
		ORDER BY id
	`, query.orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var e HistoryEntry
		var from, to string
		if err = rows.Scan(&e.Action, &from, &to, &e.ActorRole, &e.ActorID, &e.Note, &e.At); err != nil {
			return nil, err
		}
		fromStatus, fromErr := order.StatusFromString(from)
		if fromErr != nil {
			return nil, fromErr
		}
		toStatus, toErr := order.StatusFromString(to)
		if toErr != nil {
			return nil, toErr
		}
		e.From = fromStatus.Presentation()
		e.To = toStatus.Presentation()
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

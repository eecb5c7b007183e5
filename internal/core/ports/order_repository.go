package ports

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// OrderRepository is the persistence contract of the Order aggregate.
type OrderRepository interface {
	// Add inserts a new order with its items and assigns the generated ids.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order row as a compare-and-swap on the stored status
	// and version. It returns errs.ConflictError when another writer got
	// there first and errs.ObjectNotFoundError when the order is gone.
	Update(ctx context.Context, aggregate *order.Order) error

	// ReplaceItems swaps the stored lines under the same compare-and-swap as Update.
	ReplaceItems(ctx context.Context, aggregate *order.Order) error

	Get(ctx context.Context, id int64) (*order.Order, error)

	GetByNumber(ctx context.Context, number string) (*order.Order, error)
}

// HistoryRepository appends the audit trail of status changes.
type HistoryRepository interface {
	Append(ctx context.Context, orderID int64, transitions []order.Transition) error
}

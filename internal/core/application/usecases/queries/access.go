// Package queries reads order data straight from the database. Queries never
// go through the aggregate repositories and never change state.
package queries

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// authorize returns ObjectNotFoundError both for missing orders and for
// orders the actor is not a party of, so ids of other parties do not leak.
func authorize(ctx context.Context, db *gorm.DB, actor kernel.Actor, orderID int64) error {
	var row struct {
		SupplierID int64
		CustomerID int64
		Status     string
	}
	res := db.WithContext(ctx).
		Raw(`SELECT supplier_id, customer_id, status FROM orders WHERE id = ?`, orderID).
		Scan(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("orderId", orderID)
	}

	o, err := partiesOf(orderID, row.SupplierID, row.CustomerID, row.Status)
	if err != nil {
		return err
	}
	if !o.IsVisibleTo(actor) {
		return errs.NewObjectNotFoundError("orderId", orderID)
	}
	return nil
}

// partiesOf restores just enough of an order for the visibility check and
// the action gate.
func partiesOf(id, supplierID, customerID int64, status string) (*order.Order, error) {
	s, err := order.StatusFromString(status)
	if err != nil {
		return nil, err
	}
	return order.RestoreOrder(order.Snapshot{ID: id, SupplierID: supplierID, CustomerID: customerID, Status: s})
}

// scope narrows a query on orders to the rows the actor is a party of.
func scope(actor kernel.Actor) (string, []any) {
	switch {
	case actor.IsSupplier():
		return "o.supplier_id = ?", []any{actor.ID}
	case actor.IsCustomer():
		return "o.customer_id = ?", []any{actor.ID}
	default:
		return "TRUE", nil
	}
}

package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// CheckoutCommandHandler creates the orders of a checkout in one transaction,
// so either every supplier gets its order or none does.
type CheckoutCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewCheckoutCommandHandler(uowFactory OrderUoWFactory) CheckoutCommandHandler {
	return CheckoutCommandHandler{uowFactory: uowFactory}
}

// Handle returns the created orders in cart supplier order.
func (h *CheckoutCommandHandler) Handle(ctx context.Context, cmd CheckoutCommand) ([]*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	orders := make([]*order.Order, 0)
	for _, group := range cmd.GroupBySupplier() {
		o, err := newOrderFromGroup(cmd, group, now)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	for _, o := range orders {
		if err := repo.Add(ctx, o); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return orders, nil
}

func newOrderFromGroup(cmd CheckoutCommand, group []CheckoutLine, now time.Time) (*order.Order, error) {
	items := make([]*order.Item, 0, len(group))
	for _, l := range group {
		price, err := kernel.NewPrice(l.UnitPrice)
		if err != nil {
			return nil, err
		}
		item, err := order.NewItem(order.ItemLine{
			ProductID: l.ProductID,
			Name:      l.ProductName,
			SKU:       l.ProductSKU,
			Quantity:  l.Quantity,
			UnitPrice: price,
			VATRate:   l.VATRate,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return order.NewOrder(order.Draft{
		Number:              order.NewNumber(now),
		SupplierID:          group[0].SupplierID,
		SupplierName:        group[0].SupplierName,
		CustomerID:          cmd.Customer().ID,
		CustomerName:        cmd.CustomerName(),
		Items:               items,
		DeliveryAddress:     cmd.DeliveryAddress(),
		DesiredDeliveryDate: cmd.DesiredDeliveryDate(),
		Notes:               cmd.Notes(),
	}, now)
}

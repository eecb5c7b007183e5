package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

type ReplaceItemsCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewReplaceItemsCommandHandler(uowFactory OrderUoWFactory) ReplaceItemsCommandHandler {
	return ReplaceItemsCommandHandler{uowFactory: uowFactory}
}

func (h *ReplaceItemsCommandHandler) Handle(ctx context.Context, cmd ReplaceItemsCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(cmd.Items()))
	for _, in := range cmd.Items() {
		price, err := kernel.NewPrice(in.UnitPrice)
		if err != nil {
			return nil, err
		}
		item, err := order.NewItem(order.ItemLine{
			ProductID: in.ProductID,
			Name:      in.ProductName,
			SKU:       in.ProductSKU,
			Quantity:  in.Quantity,
			UnitPrice: price,
			VATRate:   in.VATRate,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if !o.IsVisibleTo(cmd.Actor()) {
		return nil, errs.NewObjectNotFoundError("orderId", cmd.OrderID())
	}

	if err := o.ReplaceItems(cmd.Actor(), items, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := repo.ReplaceItems(ctx, o); err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

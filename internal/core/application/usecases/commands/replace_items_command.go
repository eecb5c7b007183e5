package commands

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrReplaceItemsCommandIsNotConstructed = errors.New(
	"ReplaceItemsCommand must be created via NewReplaceItemsCommand constructor",
)

// ItemInput is a replacement order line with its catalog snapshot.
type ItemInput struct {
	ProductID   int64
	ProductName string
	ProductSKU  string
	Quantity    int64
	UnitPrice   decimal.Decimal
	VATRate     decimal.Decimal
}

// ReplaceItemsCommand swaps every line of an order still awaiting confirmation.
type ReplaceItemsCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	orderID int64
	items   []ItemInput

	guard guard.ConstructorGuard
}

func NewReplaceItemsCommand(actor kernel.Actor, orderID int64, items []ItemInput) (ReplaceItemsCommand, error) {
	verr := &errs.ValidationError{}
	if orderID <= 0 {
		verr.Add("orderId", "is required")
	}
	if len(items) == 0 {
		verr.Add("items", "at least one item is required")
	}
	for i, it := range items {
		field := fmt.Sprintf("items[%d]", i)
		if it.ProductID <= 0 {
			verr.Add(field+".productId", "is required")
		}
		if it.Quantity <= 0 {
			verr.Add(field+".quantity", "must be greater than 0")
		}
		checkPricing(verr, field, it.UnitPrice, it.VATRate)
	}
	if err := verr.OrNil(); err != nil {
		return ReplaceItemsCommand{}, err
	}

	return ReplaceItemsCommand{
		actor:   actor,
		orderID: orderID,
		items:   items,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ReplaceItemsCommand) Validate() error {
	return c.guard.Validate(ErrReplaceItemsCommandIsNotConstructed)
}

func (c ReplaceItemsCommand) Actor() kernel.Actor { return c.actor }

func (c ReplaceItemsCommand) OrderID() int64 { return c.orderID }

func (c ReplaceItemsCommand) Items() []ItemInput { return c.items }

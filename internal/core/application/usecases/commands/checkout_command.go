package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCheckoutCommandIsNotConstructed = errors.New(
	"CheckoutCommand must be created via NewCheckoutCommand constructor",
)

// CheckoutLine is one cart line with the catalog data snapshotted at checkout.
type CheckoutLine struct {
	ProductID    int64
	SupplierID   int64
	SupplierName string
	ProductName  string
	ProductSKU   string
	Quantity     int64
	UnitPrice    decimal.Decimal
	VATRate      decimal.Decimal
}

// CheckoutCommand turns a customer's cart into one order per supplier.
//
// Example:
//
//	cmd, err := commands.NewCheckoutCommand(customer, "Produkty 24", lines,
//	    "Minsk, Nezavisimosti 1", time.Now().AddDate(0, 0, 3), "")
//	orders, err := handler.Handle(ctx, cmd)
type CheckoutCommand struct { //nolint:recvcheck //using for validation
	customer            kernel.Actor
	customerName        string
	lines               []CheckoutLine
	deliveryAddress     string
	desiredDeliveryDate time.Time
	notes               string

	guard guard.ConstructorGuard
}

func NewCheckoutCommand(
	customer kernel.Actor,
	customerName string,
	lines []CheckoutLine,
	deliveryAddress string,
	desiredDeliveryDate time.Time,
	notes string,
) (CheckoutCommand, error) {
	verr := &errs.ValidationError{}
	if !customer.IsCustomer() {
		return CheckoutCommand{}, errs.NewAccessDeniedError("only customers can check out")
	}
	if len(lines) == 0 {
		verr.Add("items", "cart is empty")
	}
	for i, l := range lines {
		field := fmt.Sprintf("items[%d]", i)
		if l.SupplierID <= 0 {
			verr.Add(field+".supplierId", "is required")
		}
		if l.ProductID <= 0 {
			verr.Add(field+".productId", "is required")
		}
		if l.Quantity <= 0 {
			verr.Add(field+".quantity", "must be greater than 0")
		}
		checkPricing(verr, field, l.UnitPrice, l.VATRate)
	}
	if strings.TrimSpace(deliveryAddress) == "" {
		verr.Add("deliveryAddress", "must not be empty")
	}
	if desiredDeliveryDate.IsZero() {
		verr.Add("desiredDeliveryDate", "is required")
	}
	if err := verr.OrNil(); err != nil {
		return CheckoutCommand{}, err
	}

	return CheckoutCommand{
		customer:            customer,
		customerName:        customerName,
		lines:               lines,
		deliveryAddress:     deliveryAddress,
		desiredDeliveryDate: desiredDeliveryDate,
		notes:               notes,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

func (c CheckoutCommand) Validate() error {
	return c.guard.Validate(ErrCheckoutCommandIsNotConstructed)
}

func (c CheckoutCommand) Customer() kernel.Actor { return c.customer }

func (c CheckoutCommand) CustomerName() string { return c.customerName }

func (c CheckoutCommand) Lines() []CheckoutLine { return c.lines }

func (c CheckoutCommand) DeliveryAddress() string { return c.deliveryAddress }

func (c CheckoutCommand) DesiredDeliveryDate() time.Time { return c.desiredDeliveryDate }

func (c CheckoutCommand) Notes() string { return c.notes }

// GroupBySupplier splits the lines per supplier, keeping the order in which
// suppliers first appear in the cart.
func (c CheckoutCommand) GroupBySupplier() [][]CheckoutLine {
	index := make(map[int64]int)
	var groups [][]CheckoutLine
	for _, l := range c.lines {
		i, ok := index[l.SupplierID]
		if !ok {
			i = len(groups)
			index[l.SupplierID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], l)
	}
	return groups
}

var maxVATRate = decimal.NewFromInt(100)

// checkPricing adds the field errors of a price snapshot. Both values are
// stored with two fractional digits.
func checkPricing(verr *errs.ValidationError, field string, unitPrice, vatRate decimal.Decimal) {
	switch {
	case unitPrice.IsNegative():
		verr.Add(field+".unitPrice", "must not be negative")
	case !kernel.WithinScale(unitPrice):
		verr.Add(field+".unitPrice", "must have at most 2 fractional digits")
	}
	switch {
	case vatRate.IsNegative() || vatRate.GreaterThan(maxVATRate):
		verr.Add(field+".vatRate", "must be between 0 and 100")
	case !kernel.WithinScale(vatRate):
		verr.Add(field+".vatRate", "must have at most 2 fractional digits")
	}
}

package order

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var maxVATRate = decimal.NewFromInt(100)

// Item is an order line with price and VAT snapshotted at checkout.
type Item struct {
	id        int64
	productID int64
	name      string
	sku       string
	quantity  int64
	unitPrice kernel.Money
	vatRate   decimal.Decimal
}

// ItemLine is the input of NewItem.
type ItemLine struct {
	ProductID int64
	Name      string
	SKU       string
	Quantity  int64
	UnitPrice kernel.Money
	// VATRate is a percentage between 0 and 100.
	VATRate decimal.Decimal
}

// NewItem validates a line before it is attached to an order. The id is
// assigned by storage. Unit price and VAT rate are stored with two fractional
// digits, so lines with finer values are rejected rather than rounded.
func NewItem(line ItemLine) (*Item, error) {
	var problems []error
	if line.ProductID <= 0 {
		problems = append(problems, errs.NewValueIsRequiredError("productId"))
	}
	if blank(line.Name) {
		problems = append(problems, errs.NewValueIsRequiredError("productName"))
	}
	if line.Quantity <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%d is not greater than 0", line.Quantity)))
	}
	if line.UnitPrice.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"unitPrice", fmt.Errorf("%s is negative", line.UnitPrice)))
	}
	if !line.UnitPrice.WithinScale() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"unitPrice", fmt.Errorf("%s has more than %d fractional digits", line.UnitPrice.Decimal(), kernel.MoneyScale)))
	}
	if line.VATRate.IsNegative() || line.VATRate.GreaterThan(maxVATRate) {
		problems = append(problems, errs.NewValueIsOutOfRangeError("vatRate", line.VATRate, 0, 100))
	}
	if !kernel.WithinScale(line.VATRate) {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"vatRate", fmt.Errorf("%s has more than %d fractional digits", line.VATRate, kernel.MoneyScale)))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Item{
		productID: line.ProductID,
		name:      line.Name,
		sku:       line.SKU,
		quantity:  line.Quantity,
		unitPrice: line.UnitPrice,
		vatRate:   line.VATRate,
	}, nil
}

// RestoreItem rebuilds a stored line without validation.
func RestoreItem(id int64, line ItemLine) *Item {
	return &Item{
		id:        id,
		productID: line.ProductID,
		name:      line.Name,
		sku:       line.SKU,
		quantity:  line.Quantity,
		unitPrice: line.UnitPrice,
		vatRate:   line.VATRate,
	}
}

func (i *Item) ID() int64 { return i.id }
func (i *Item) ProductID() int64 { return i.productID }
func (i *Item) Name() string { return i.name }
func (i *Item) SKU() string { return i.sku }
func (i *Item) Quantity() int64 { return i.quantity }
func (i *Item) UnitPrice() kernel.Money { return i.unitPrice }
func (i *Item) VATRate() decimal.Decimal { return i.vatRate }

// LineTotal is unit price × quantity rounded to cents.
func (i *Item) LineTotal() kernel.Money {
	return i.unitPrice.MulQuantity(i.quantity).Round()
}

// LineVAT is LineTotal × rate / 100 rounded to cents.
func (i *Item) LineVAT() kernel.Money {
	return i.LineTotal().Percent(i.vatRate)
}

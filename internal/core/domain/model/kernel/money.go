package kernel

import (
	"fmt"

	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits every amount is rounded to.
const MoneyScale = 2

var hundred = decimal.NewFromInt(100)

// Money is a signed decimal amount in the platform currency. Arithmetic is
// exact; Round applies half-up rounding to MoneyScale places.
//
// Prices and order totals are never negative. Discrepancy amounts are signed,
// so Money itself does not forbid negatives; use NewPrice where a
// non-negative amount is required.
//
// Example usage:
//
//	price, err := kernel.NewPrice(decimal.RequireFromString("0.33"))
//	if err != nil {
//	    return err
//	}
//	line := price.MulQuantity(3).Round()     // 0.99
//	vat := line.Percent(decimal.NewFromInt(20)) // 0.20
//	fmt.Println(line.Add(vat).String())      // "1.19"
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns a zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// MoneyFromDecimal wraps d as is.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{amount: d}
}

// MoneyFromString parses a decimal literal such as "2.50".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return Money{amount: d}, nil
}

// NewPrice validates that d is not negative and has at most MoneyScale
// fractional digits, so a stored price equals the price totals were computed
// from. Returns an errs.ValueIsInvalidError for the field "price" otherwise.
//
// Example:
//
//	kernel.NewPrice(decimal.RequireFromString("2.500")) // 2.50, accepted
//	kernel.NewPrice(decimal.RequireFromString("0.333")) // error: more than 2 fractional digits
func NewPrice(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"price", fmt.Errorf("%s is negative", d.String()))
	}
	if !WithinScale(d) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"price", fmt.Errorf("%s has more than %d fractional digits", d.String(), MoneyScale))
	}
	return Money{amount: d}, nil
}

// WithinScale reports whether d has no significant digits beyond MoneyScale.
// Trailing zeros do not count: 2.500 is within scale, 0.333 is not.
func WithinScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// MulQuantity returns m × qty.
func (m Money) MulQuantity(qty int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(qty))}
}

// Percent returns m × rate / 100 rounded to MoneyScale.
//
// Example:
//
//	kernel.MoneyFromDecimal(decimal.RequireFromString("10.05")).Percent(decimal.NewFromInt(20)) // 2.01
func (m Money) Percent(rate decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(rate).Div(hundred)}.Round()
}

// Round rounds half away from zero to MoneyScale places.
//
// Example:
//
//	kernel.MoneyFromDecimal(decimal.RequireFromString("0.125")).Round()  // 0.13
//	kernel.MoneyFromDecimal(decimal.RequireFromString("-0.125")).Round() // -0.13
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(MoneyScale)}
}

// WithinScale reports whether m is exactly representable in cents.
func (m Money) WithinScale() bool {
	return WithinScale(m.amount)
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Equal compares numerically, so 2.5 equals 2.50.
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Decimal exposes the underlying value for persistence.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String formats with exactly MoneyScale fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}

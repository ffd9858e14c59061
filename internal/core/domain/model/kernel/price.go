package kernel

import (
	"fmt"

	"bookstore/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// priceScale is the number of fractional digits a Price keeps.
const priceScale = 2

// Price is a non-negative monetary amount rounded to cents. It is used for book
// prices, captured order line prices and derived totals.
//
// The zero value is a valid price of 0.00.
type Price struct {
	amount decimal.Decimal
}

// NewPrice creates a Price from a decimal amount, rounding half away from zero to cents.
// Negative amounts are rejected.
func NewPrice(amount decimal.Decimal) (Price, error) {
	if amount.IsNegative() {
		return Price{}, errs.NewValueIsInvalidErrorWithCause(
			"price", fmt.Errorf("%s is negative", amount.String()))
	}
	return Price{amount: amount.Round(priceScale)}, nil
}

// ParsePrice creates a Price from its decimal string form, e.g. "12.50".
func ParsePrice(s string) (Price, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, errs.NewValueIsInvalidErrorWithCause("price", err)
	}
	return NewPrice(amount)
}

// ZeroPrice returns 0.00.
func ZeroPrice() Price {
	return Price{amount: decimal.Zero}
}

// Amount returns the decimal value.
func (p Price) Amount() decimal.Decimal {
	return p.amount
}

// Add returns the sum of two prices.
func (p Price) Add(other Price) Price {
	return Price{amount: p.amount.Add(other.amount)}
}

// Multiply returns the price of quantity units.
func (p Price) Multiply(quantity int) (Price, error) {
	if quantity < 0 {
		return Price{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 0, "unbounded")
	}
	return Price{amount: p.amount.Mul(decimal.NewFromInt(int64(quantity))).Round(priceScale)}, nil
}

// ApplyDiscount returns the price reduced by percentage, which must be within [0, 100].
func (p Price) ApplyDiscount(percentage decimal.Decimal) (Price, error) {
	hundred := decimal.NewFromInt(100)
	if percentage.IsNegative() || percentage.GreaterThan(hundred) {
		return Price{}, errs.NewValueIsOutOfRangeError("discount percentage", percentage.String(), 0, 100)
	}
	discount := p.amount.Mul(percentage).Div(hundred)
	return Price{amount: p.amount.Sub(discount).Round(priceScale)}, nil
}

// IsGreaterThan reports whether p is strictly greater than other.
func (p Price) IsGreaterThan(other Price) bool {
	return p.amount.GreaterThan(other.amount)
}

// IsEqual compares prices by value, ignoring representation differences such as 1.5 and 1.50.
func (p Price) IsEqual(other Price) bool {
	return p.amount.Equal(other.amount)
}

// String formats the price as "$12.50".
func (p Price) String() string {
	return "$" + p.amount.StringFixed(priceScale)
}

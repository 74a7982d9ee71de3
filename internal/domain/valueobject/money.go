// Package valueobject defines immutable value types shared across the domain.
package valueobject

import (
	"github.com/shopspring/decimal"
)

// shareScale is the number of decimal places monetary values are published at.
const shareScale = 2

// RoundShare rounds a monetary amount to two decimal places using half-up
// rounding (0.005 rounds to 0.01). Every monetary value stored on a bill or
// compared against another passes through this function exactly once, at
// publish time; intermediate accumulation stays unrounded.
func RoundShare(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(shareScale)
}

// LineTotal returns the rounded total price of one bill line:
// quantity * unit price.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return RoundShare(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

// ApplyTax inflates a pre-tax amount by a percentage:
// amount * (1 + taxPercent/100). The result is not rounded; callers round
// when publishing.
func ApplyTax(amount, taxPercent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(taxPercent.Div(decimal.NewFromInt(100)))
	return amount.Mul(factor)
}

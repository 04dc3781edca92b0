// Package money centralizes currency arithmetic for the order engine.
// All amounts are decimal euros with two-digit cent precision.
package money

import "github.com/shopspring/decimal"

var (
	ten      = decimal.NewFromInt(10)
	tenCents = decimal.New(10, -2)

	// tenthEpsilon nudges a total sitting exactly on a 10-cent boundary
	// across it, so ceiling always moves forward and flooring always moves
	// back. The value lives in the scaled 10ths domain.
	tenthEpsilon = decimal.New(1, -1)
)

func init() {
	// Upstream expects monetary fields as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Zero is the canonical zero amount.
var Zero = decimal.Zero

// TenCents is the donation step size.
func TenCents() decimal.Decimal { return tenCents }

// FromCents converts an integer cent amount to a decimal euro amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// RoundCents rounds to two decimal places, the precision of every stored amount.
func RoundCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// CeilToNextTenth raises amount to the next 10-cent boundary. An amount
// already on a boundary moves to the following one.
func CeilToNextTenth(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(ten).Add(tenthEpsilon).Ceil().Div(ten)
}

// FloorToPrevTenth lowers amount to the previous 10-cent boundary. An amount
// already on a boundary moves to the preceding one.
func FloorToPrevTenth(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(ten).Sub(tenthEpsilon).Floor().Div(ten)
}

// TenthAligned reports whether amount sits exactly on a 10-cent boundary.
func TenthAligned(amount decimal.Decimal) bool {
	return amount.Mul(ten).IsInteger()
}

// Package pricing derives the canonical total price of a line set.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/findlunch/ordercore/internal/cart"
)

// Total sums unit price times amount over all lines, rounded to cents.
// It is the single source of truth for a draft's price base; any donation is
// folded in on top by the donation ledger.
func Total(lines []*cart.Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Item.Price.Mul(decimal.NewFromInt(int64(line.Amount))))
	}
	return total.Round(2)
}

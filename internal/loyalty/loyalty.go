// Package loyalty derives the points price of an order and checks a user's
// balance against it. Points are a non-monetary payment currency tied to past
// purchase volume at a single restaurant.
package loyalty

import "github.com/findlunch/ordercore/internal/cart"

// PointsNeeded sums the point cost of paying the whole line set with points.
func PointsNeeded(lines []*cart.Line) int {
	needed := 0
	for _, line := range lines {
		needed += line.Item.NeededPoints * line.Amount
	}
	return needed
}

// Eligible reports whether the balance covers the needed points.
func Eligible(balance, needed int) bool {
	return balance >= needed
}

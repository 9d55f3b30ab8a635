// Package stock holds the restock threshold rule.
//
// The rule is deliberately a free function with no receiver and no I/O:
// services call it whenever quantities change, and the same inputs always
// produce the same answer.
package stock

// RestockThreshold is the fraction of total stock below which a product
// is flagged for reordering.
const RestockThreshold = 0.20

// NeedsRestock reports whether a product should be reordered.
//
// A product with zero total stock is always flagged, even though its
// available count is necessarily zero too. Otherwise the flag raises
// when the available count drops strictly below 20% of the total; a
// product sitting exactly on the threshold is not flagged.
func NeedsRestock(totalQuantity, availableQuantity int) bool {
	if totalQuantity == 0 {
		return true
	}
	return float64(availableQuantity) < RestockThreshold*float64(totalQuantity)
}

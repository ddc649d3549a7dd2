// Package pricing derives monetary totals for proposal line items.
// All functions are pure; totals can be recomputed at any time from the
// persisted item fields and must match what was stored.
package pricing

import "math"

// LineTotal computes the total for one line item. The discount applies to the
// pre-tax amount and the tax rate applies to the discounted amount:
//
//	afterDiscount = quantity * unitPrice * (1 - discountPercent/100)
//	lineTotal     = afterDiscount * (1 + taxRatePercent/100)
//
// Callers validate the input domain (quantity > 0, unitPrice >= 0,
// 0 <= discountPercent <= 100); the function does not clamp. A zero quantity
// or unit price yields 0.
func LineTotal(quantity, unitPrice, discountPercent, taxRatePercent float64) float64 {
	if quantity == 0 || unitPrice == 0 {
		return 0
	}
	afterDiscount := quantity * unitPrice * (1 - discountPercent/100)
	return Round(afterDiscount * (1 + taxRatePercent/100))
}

// Subtotal sums already-computed line totals in collection order.
func Subtotal(lineTotals []float64) float64 {
	var sum float64
	for _, t := range lineTotals {
		sum += t
	}
	return Round(sum)
}

// Round rounds a monetary amount to two decimals, half away from zero.
// Stored totals are always rounded so recomputation is idempotent.
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}

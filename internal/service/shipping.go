package service

import "github.com/shopspring/decimal"

// CalculateShipping returns the fee for a cart subtotal: zero when the
// free-shipping threshold is enabled (> 0) and the subtotal reaches it,
// the flat default fee otherwise. Pure function, no failure modes.
func CalculateShipping(subtotal, defaultFee, freeThreshold decimal.Decimal) decimal.Decimal {
	if freeThreshold.IsPositive() && subtotal.GreaterThanOrEqual(freeThreshold) {
		return decimal.Zero
	}
	return defaultFee
}

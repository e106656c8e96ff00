// Package pricing holds the rental price arithmetic shared by the
// checkout and reservation flows.
package pricing

import (
	"math"
	"time"
)

// TaxRate is applied on top of the rental subtotal.
const TaxRate = 0.15

// Nights returns the billable nights for a date pair. A same-day range
// still rents one night; the clamp never validates order, callers reject
// inverted ranges before pricing.
func Nights(start, end time.Time) int64 {
	days := int64(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// Subtotal is the untaxed rental cost for a daily price over n nights.
func Subtotal(dailyPrice float64, nights int64) float64 {
	return dailyPrice * float64(nights)
}

// Total applies tax to a subtotal. Rounding happens only at display
// time, never here.
func Total(subtotal float64) float64 {
	return subtotal * (1 + TaxRate)
}

// Round2 is for display formatting of money values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

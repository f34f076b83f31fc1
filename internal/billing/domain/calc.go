package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Calculate prices a period's usage: usage * rate + base fee. Decimal
// arithmetic is exact, so repeated sums downstream reconcile.
func Calculate(usage, ratePerUnit, baseFee decimal.Decimal) decimal.Decimal {
	return usage.Mul(ratePerUnit).Add(baseFee)
}

// DueDate is day 20 of the month after the billing period. Fixed business
// rule, not configurable. time.Date normalizes month 13 into January of
// the next year.
func DueDate(month, year int) time.Time {
	return time.Date(year, time.Month(month)+1, 20, 0, 0, 0, 0, time.UTC)
}

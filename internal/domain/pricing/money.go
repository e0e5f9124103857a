// Package pricing holds the pure loan pricing pipeline: score adjustment,
// rate tiering, installment calculation and amortization schedules.
package pricing

import "github.com/shopspring/decimal"

var (
	// Tolerance is the currency amount under which a balance counts as settled.
	Tolerance = decimal.RequireFromString("0.01")

	one       = decimal.NewFromInt(1)
	twelve    = decimal.NewFromInt(12)
	hundred   = decimal.NewFromInt(100)
	reference = decimal.NewFromInt(1_000_000)
)

// Round2 is the single rounding rule for money: half away from zero, 2 places.
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// MonthlyRate converts an annual percentage rate into a monthly fraction.
func MonthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(hundred).Div(twelve)
}

package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// Installment is the fixed monthly payment of a loan and the totals derived from it.
type Installment struct {
	EMI            decimal.Decimal `json:"emi"`
	TotalRepayment decimal.Decimal `json:"total_repayment"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
}

// CalculateInstallment computes the equal monthly installment for principal
// over months at annualRate percent. Zero term, zero principal or a negative
// rate yield the zero Installment.
//
// The EMI is rounded before it is multiplied out so that TotalRepayment is
// always exactly months copies of the EMI.
func CalculateInstallment(principal, annualRate decimal.Decimal, months int) Installment {
	if months <= 0 || !principal.IsPositive() || annualRate.IsNegative() {
		return Installment{EMI: decimal.Zero, TotalRepayment: decimal.Zero, TotalInterest: decimal.Zero}
	}

	n := decimal.NewFromInt(int64(months))
	var emi decimal.Decimal
	if annualRate.IsZero() {
		emi = principal.Div(n)
	} else {
		// (1+r)^n is evaluated in float64; the result is brought back to
		// decimal and rounded before any further money arithmetic.
		r := MonthlyRate(annualRate).InexactFloat64()
		factor := math.Pow(1+r, float64(months))
		emi = decimal.NewFromFloat(principal.InexactFloat64() * r * factor / (factor - 1))
	}
	emi = Round2(emi)

	total := emi.Mul(n)
	return Installment{
		EMI:            emi,
		TotalRepayment: total,
		TotalInterest:  total.Sub(principal),
	}
}

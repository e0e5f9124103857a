package pricing

import "github.com/shopspring/decimal"

// Terms are the applicant-supplied inputs to pricing.
type Terms struct {
	Principal     decimal.Decimal
	TermMonths    int
	BaseRate      decimal.Decimal
	ReportedScore int
	AnnualIncome  decimal.Decimal
}

// Quote is the full result of pricing a set of terms.
type Quote struct {
	AdjustedScore int             `json:"adjusted_score"`
	FinalRate     decimal.Decimal `json:"final_rate"`
	Installment
}

// Price runs score adjustment, rate tiering and the installment calculation.
// It does not validate; callers check terms first.
func Price(t Terms) Quote {
	score := AdjustScore(t.ReportedScore, t.Principal, t.AnnualIncome)
	rate := AdjustRate(t.BaseRate, score)
	return Quote{
		AdjustedScore: score,
		FinalRate:     rate,
		Installment:   CalculateInstallment(t.Principal, rate, t.TermMonths),
	}
}

package pricing

import "github.com/shopspring/decimal"

const (
	MinScore = 300
	MaxScore = 850
)

var (
	weightReported = decimal.RequireFromString("0.7")
	weightIncome   = decimal.RequireFromString("0.2")
	weightAmount   = decimal.RequireFromString("0.1")

	incomeSpan = decimal.NewFromInt(550)
	amountSpan = decimal.NewFromInt(200)
)

// AdjustScore blends the self-reported score with an income signal and a
// loan-size signal, both measured against a 1,000,000 reference amount.
// The result is clamped to [MinScore, MaxScore].
func AdjustScore(reported int, amount, income decimal.Decimal) int {
	incomeFactor := decimal.Min(one, income.Div(reference))
	incomeScore := decimal.NewFromInt(MinScore).Add(incomeFactor.Mul(incomeSpan))

	amountFactor := decimal.Min(one, amount.Div(reference))
	amountScore := decimal.NewFromInt(MaxScore).Sub(amountFactor.Mul(amountSpan))

	blended := decimal.NewFromInt(int64(reported)).Mul(weightReported).
		Add(incomeScore.Mul(weightIncome)).
		Add(amountScore.Mul(weightAmount))

	blended = decimal.Max(decimal.NewFromInt(MinScore), decimal.Min(decimal.NewFromInt(MaxScore), blended))
	return int(blended.Round(0).IntPart())
}

package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	MinRate = decimal.NewFromInt(1)
	MaxRate = decimal.NewFromInt(50)
)

type rateTier struct {
	minScore   int
	adjustment decimal.Decimal
}

// Evaluated top-down; the first tier whose floor the score reaches wins.
var rateTiers = []rateTier{
	{minScore: 750, adjustment: decimal.RequireFromString("-1.5")},
	{minScore: 700, adjustment: decimal.RequireFromString("-0.5")},
	{minScore: 650, adjustment: decimal.Zero},
	{minScore: 600, adjustment: decimal.RequireFromString("0.5")},
	{minScore: math.MinInt, adjustment: decimal.RequireFromString("1.5")},
}

// RateAdjustment returns the additive rate change for an adjusted score.
func RateAdjustment(adjustedScore int) decimal.Decimal {
	for _, t := range rateTiers {
		if adjustedScore >= t.minScore {
			return t.adjustment
		}
	}
	return decimal.Zero
}

// AdjustRate applies the score tier to the base annual rate, rounds to two
// decimals and clamps the result to [MinRate, MaxRate].
func AdjustRate(baseRate decimal.Decimal, adjustedScore int) decimal.Decimal {
	final := Round2(baseRate.Add(RateAdjustment(adjustedScore)))
	return decimal.Max(MinRate, decimal.Min(MaxRate, final))
}

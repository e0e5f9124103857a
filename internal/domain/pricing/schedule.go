package pricing

import "github.com/shopspring/decimal"

// ScheduleRow is one month of an amortization schedule.
type ScheduleRow struct {
	Month     int             `json:"month"`
	EMI       decimal.Decimal `json:"emi"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Balance   decimal.Decimal `json:"balance"`
}

// BuildSchedule splits each installment into principal and interest.
// emi must be the value CalculateInstallment returns for the same terms.
//
// Rows carry full precision; RoundSchedule prepares them for display. The
// last row always retires the remaining balance so the schedule ends at
// exactly zero whatever drift built up along the way.
func BuildSchedule(principal, annualRate decimal.Decimal, months int, emi decimal.Decimal) []ScheduleRow {
	if months <= 0 {
		return nil
	}
	rate := MonthlyRate(annualRate)
	balance := principal
	rows := make([]ScheduleRow, 0, months)

	for month := 1; month <= months; month++ {
		interest := balance.Mul(rate)
		principalPart := emi.Sub(interest)

		if month == months {
			principalPart = balance
			interest = emi.Sub(principalPart)
			if interest.IsNegative() {
				interest = decimal.Zero
			}
			balance = decimal.Zero
		} else {
			balance = balance.Sub(principalPart)
			if balance.IsNegative() {
				balance = decimal.Zero
			}
		}

		rows = append(rows, ScheduleRow{
			Month:     month,
			EMI:       emi,
			Principal: principalPart,
			Interest:  interest,
			Balance:   balance,
		})
	}
	return rows
}

// RoundSchedule rounds rows to cents for display. The principal column is
// taken from the rounded balances so it still sums to the loan principal.
func RoundSchedule(principal decimal.Decimal, rows []ScheduleRow) []ScheduleRow {
	out := make([]ScheduleRow, len(rows))
	prev := Round2(principal)
	for i, r := range rows {
		bal := Round2(r.Balance)
		out[i] = ScheduleRow{
			Month:     r.Month,
			EMI:       Round2(r.EMI),
			Principal: prev.Sub(bal),
			Interest:  Round2(r.Interest),
			Balance:   bal,
		}
		prev = bal
	}
	return out
}

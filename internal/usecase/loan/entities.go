package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"loan-ledger-service/internal/domain/pricing"
)

type QuoteInput struct {
	Principal    decimal.Decimal
	TermMonths   int
	BaseRate     decimal.Decimal
	CreditScore  int
	AnnualIncome decimal.Decimal
}

type CreateLoanInput struct {
	BorrowerID string
	QuoteInput
}

type QuoteDTO struct {
	AdjustedScore      int             `json:"adjusted_score"`
	FinalRate          decimal.Decimal `json:"final_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	TotalRepayment     decimal.Decimal `json:"total_repayment"`
	TotalInterest      decimal.Decimal `json:"total_interest"`
}

type LoanDTO struct {
	LoanID             string          `json:"loan_id"`
	BorrowerID         string          `json:"borrower_id"`
	Principal          decimal.Decimal `json:"principal"`
	TermMonths         int             `json:"term_months"`
	BaseRate           decimal.Decimal `json:"base_rate"`
	CreditScore        int             `json:"credit_score"`
	AnnualIncome       decimal.Decimal `json:"annual_income"`
	AdjustedScore      int             `json:"adjusted_score"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	TotalRepayment     decimal.Decimal `json:"total_repayment"`
	TotalInterest      decimal.Decimal `json:"total_interest"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	RemainingAmount    decimal.Decimal `json:"remaining_amount"`
	PenaltyAmount      decimal.Decimal `json:"penalty_amount"`
	PenaltyDays        int             `json:"penalty_days"`
	RefundAmount       decimal.Decimal `json:"refund_amount"`
	Status             string          `json:"status"`
	StatusUpdatedAt    time.Time       `json:"status_updated_at"`
	NextDueDate        string          `json:"next_due_date"`
	CreatedAt          time.Time       `json:"created_at"`
}

type EntryDTO struct {
	EntryID  string          `json:"entry_id"`
	Seq      int             `json:"seq"`
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Flow     string          `json:"flow"`
}

type ScheduleDTO struct {
	LoanID             string                `json:"loan_id"`
	MonthlyInstallment decimal.Decimal       `json:"monthly_installment"`
	Rows               []pricing.ScheduleRow `json:"rows"`
}

// ReportDTO is everything a loan report shows, in one payload.
type ReportDTO struct {
	Loan        LoanDTO               `json:"loan"`
	Schedule    []pricing.ScheduleRow `json:"schedule"`
	Ledger      []EntryDTO            `json:"ledger"`
	NextDueDate string                `json:"next_due_date"`
	GeneratedAt time.Time             `json:"generated_at"`
}

type BorrowerSummaryDTO struct {
	BorrowerID       string          `json:"borrower_id"`
	LoansApplied     int             `json:"loans_applied"`
	LoansApproved    int             `json:"loans_approved"`
	LoansPending     int             `json:"loans_pending"`
	ApprovedValue    decimal.Decimal `json:"approved_value"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	// NextInstallment and NextDueDate describe the oldest approved loan.
	NextInstallment decimal.Decimal `json:"next_installment"`
	NextDueDate     string          `json:"next_due_date"`
}

type PortfolioSummaryDTO struct {
	TotalLoans       int             `json:"total_loans"`
	Borrowers        int             `json:"borrowers"`
	PendingLoans     int             `json:"pending_loans"`
	ApprovedValue    decimal.Decimal `json:"approved_value"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	ByStatus         map[string]int  `json:"by_status"`
}

package ledger

import (
	"github.com/shopspring/decimal"

	loanuc "loan-ledger-service/internal/usecase/loan"
)

type PaymentInput struct {
	LoanID string
	Amount decimal.Decimal
	// Category is EMI or Prepayment; empty means EMI.
	Category string
}

// EntryResultDTO is the appended entry and the loan after the mutation.
type EntryResultDTO struct {
	Entry loanuc.EntryDTO `json:"entry"`
	Loan  loanuc.LoanDTO  `json:"loan"`
}

type LedgerDTO struct {
	LoanID          string            `json:"loan_id"`
	Status          string            `json:"status"`
	RemainingAmount decimal.Decimal   `json:"remaining_amount"`
	Entries         []loanuc.EntryDTO `json:"entries"`
	NextDueDate     string            `json:"next_due_date"`
}

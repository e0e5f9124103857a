package decision

import (
	"time"

	loanuc "loan-ledger-service/internal/usecase/loan"
)

type DecideInput struct {
	LoanID    string
	DecidedBy string // 32-char hex
	Note      string
	// DecidedAt defaults to the current time when zero.
	DecidedAt time.Time
}

type DecisionDTO struct {
	DecisionID string         `json:"decision_id"`
	LoanID     string         `json:"loan_id"`
	Outcome    string         `json:"outcome"`
	DecidedBy  string         `json:"decided_by"`
	Note       string         `json:"note,omitempty"`
	DecidedAt  time.Time      `json:"decided_at"`
	Loan       loanuc.LoanDTO `json:"loan"`
}

package uow

import (
	"context"

	"loan-ledger-service/internal/domain/decision"
	"loan-ledger-service/internal/domain/loan"
)

// Repos are bound to the transaction that created them.
type Repos struct {
	Loans        loan.Repository
	Transactions loan.TransactionRepository
	Decisions    decision.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row, loads its ledger, then passes it in.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}

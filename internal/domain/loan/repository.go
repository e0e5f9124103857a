package loan

import "context"

// Filter narrows List; zero fields match everything.
type Filter struct {
	BorrowerID string
	Status     Status
}

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row for the surrounding transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	List(ctx context.Context, f Filter) ([]Loan, error)
}

// TransactionRepository is insert-only; ledger entries are never edited.
type TransactionRepository interface {
	Append(ctx context.Context, t *Transaction) error
	ListByLoan(ctx context.Context, loanNumericID uint64) ([]Transaction, error)
}

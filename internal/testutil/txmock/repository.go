package txmock

import (
	"context"

	domain "loan-ledger-service/internal/domain/loan"
)

var _ domain.TransactionRepository = (*Repo)(nil)

// Repo is a function-backed mock of domain.TransactionRepository. With no
// AppendFn set it records appended entries in Appended.
type Repo struct {
	AppendFn     func(ctx context.Context, t *domain.Transaction) error
	ListByLoanFn func(ctx context.Context, loanNumericID uint64) ([]domain.Transaction, error)

	Appended []domain.Transaction
}

func (m *Repo) Append(ctx context.Context, t *domain.Transaction) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, t)
	}
	m.Appended = append(m.Appended, *t)
	return nil
}

func (m *Repo) ListByLoan(ctx context.Context, loanNumericID uint64) ([]domain.Transaction, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanNumericID)
	}
	var out []domain.Transaction
	for _, t := range m.Appended {
		if t.LoanID == loanNumericID {
			out = append(out, t)
		}
	}
	return out, nil
}

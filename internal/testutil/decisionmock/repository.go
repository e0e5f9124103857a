package decisionmock

import (
	"context"

	domain "loan-ledger-service/internal/domain/decision"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies decision.Repository.
type Repo struct {
	CreateFn          func(ctx context.Context, d *domain.Decision) error
	GetByLoanIDFn     func(ctx context.Context, loanID uint64) (*domain.Decision, error)
	GetByDecisionIDFn func(ctx context.Context, decisionID string) (*domain.Decision, error)
}

func (m *Repo) Create(ctx context.Context, d *domain.Decision) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID uint64) (*domain.Decision, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByDecisionID(ctx context.Context, decisionID string) (*domain.Decision, error) {
	if m.GetByDecisionIDFn != nil {
		return m.GetByDecisionIDFn(ctx, decisionID)
	}
	return nil, domain.ErrNotFound
}

package mysql

import (
	"context"

	"gorm.io/gorm"

	loanDomain "loan-ledger-service/internal/domain/loan"
)

// TransactionRepository appends ledger entries; entries are never updated or deleted.
type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Append(ctx context.Context, t *loanDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) ListByLoan(ctx context.Context, loanNumericID uint64) ([]loanDomain.Transaction, error) {
	var out []loanDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		Order("seq ASC").
		Find(&out)
	return out, res.Error
}

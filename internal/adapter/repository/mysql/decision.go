package mysql

import (
	"context"

	"gorm.io/gorm"

	decisionDomain "loan-ledger-service/internal/domain/decision"
)

type DecisionRepository struct{ db *gorm.DB }

func NewDecisionRepository(db *gorm.DB) *DecisionRepository { return &DecisionRepository{db: db} }

func (r *DecisionRepository) Create(ctx context.Context, d *decisionDomain.Decision) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DecisionRepository) GetByLoanID(ctx context.Context, loanNumericID uint64) (*decisionDomain.Decision, error) {
	var out decisionDomain.Decision
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		First(&out)
	return &out, res.Error
}

func (r *DecisionRepository) GetByDecisionID(ctx context.Context, decisionID string) (*decisionDomain.Decision, error) {
	var out decisionDomain.Decision
	res := r.db.WithContext(ctx).
		Where("decision_id = ?", decisionID).
		First(&out)
	return &out, res.Error
}

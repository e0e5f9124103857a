package decision

import "context"

type Repository interface {
	// Create a decision (DB uniqueness ensures at most one per loan)
	Create(ctx context.Context, d *Decision) error

	// Get the decision by numeric loan ID
	GetByLoanID(ctx context.Context, loanID uint64) (*Decision, error)

	// Get by public decision_id
	GetByDecisionID(ctx context.Context, decisionID string) (*Decision, error)
}

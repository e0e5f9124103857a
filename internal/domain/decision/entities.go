package decision

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("decision not found")

type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

// Decision records who moved a pending loan to approved or rejected.
// Table: loan_decisions, at most one live row per loan.
type Decision struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (32-char lowercase hex)
	DecisionID string `gorm:"column:decision_id;size:32;not null;uniqueIndex:ux_loan_decisions_decision_id" json:"decision_id"`
	// FK to loans.id
	LoanID    uint64         `gorm:"column:loan_id;not null;uniqueIndex:ux_loan_decisions_loan" json:"-"`
	Outcome   Outcome        `gorm:"column:outcome;size:16;not null" json:"outcome"`
	DecidedBy string         `gorm:"column:decided_by;size:32;not null" json:"decided_by"`
	Note      string         `gorm:"column:note;type:text" json:"note,omitempty"`
	DecidedAt time.Time      `gorm:"column:decided_at;not null" json:"decided_at"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Decision) TableName() string { return "loan_decisions" }

package loan

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusPaid     Status = "paid"
)

type Category string

const (
	CategoryEMI        Category = "EMI"
	CategoryPrepayment Category = "Prepayment"
	CategoryPenalty    Category = "Penalty"
	CategoryRefund     Category = "Refund"
)

// Flow is the direction of a ledger entry: CREDIT lowers the balance, DEBIT raises it.
type Flow string

const (
	FlowCredit Flow = "CREDIT"
	FlowDebit  Flow = "DEBIT"
)

type Loan struct {
	ID         uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID     string `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	BorrowerID string `gorm:"size:32;index:idx_loans_borrower_active" json:"borrower_id"`

	// Terms, fixed at creation.
	Principal     decimal.Decimal `gorm:"type:decimal(18,2)" json:"principal"`
	TermMonths    int             `json:"term_months"`
	BaseRate      decimal.Decimal `gorm:"type:decimal(6,2)" json:"base_rate"`
	ReportedScore int             `json:"reported_score"`
	AnnualIncome  decimal.Decimal `gorm:"type:decimal(18,2)" json:"annual_income"`

	// Pricing, written once by New.
	AdjustedScore      int             `json:"adjusted_score"`
	InterestRate       decimal.Decimal `gorm:"type:decimal(6,2)" json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `gorm:"type:decimal(18,2)" json:"monthly_installment"`
	TotalRepayment     decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_repayment"`
	TotalInterest      decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_interest"`

	// Ledger-derived state.
	TotalPaid       decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_paid"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(18,2)" json:"remaining_amount"`
	PenaltyAmount   decimal.Decimal `gorm:"type:decimal(18,2)" json:"penalty_amount"`
	PenaltyDays     int             `json:"penalty_days"`
	RefundAmount    decimal.Decimal `gorm:"type:decimal(18,2)" json:"refund_amount"`

	Status          Status         `gorm:"size:16;index;default:'pending'" json:"status"`
	StatusUpdatedAt time.Time      `json:"status_updated_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Transactions []Transaction `gorm:"foreignKey:LoanID;references:ID" json:"transactions,omitempty"`
}

func (Loan) TableName() string { return "loans" }

// Transaction is one append-only ledger entry.
type Transaction struct {
	ID        uint64          `gorm:"primaryKey;column:id" json:"-"`
	EntryID   string          `gorm:"size:36;uniqueIndex" json:"entry_id"`
	LoanID    uint64          `gorm:"not null;uniqueIndex:ux_loan_transactions_seq" json:"-"`
	Seq       int             `gorm:"not null;uniqueIndex:ux_loan_transactions_seq" json:"seq"`
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	Category  Category        `gorm:"size:16" json:"category"`
	Flow      Flow            `gorm:"size:8" json:"flow"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"-"`
}

func (Transaction) TableName() string { return "loan_transactions" }

package mysql

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	loanDomain "loan-ledger-service/internal/domain/loan"
	"loan-ledger-service/internal/domain/pricing"
	"loan-ledger-service/internal/infrastructure/db"
)

// openTestDB creates a private in-memory sqlite DB with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenGorm(db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func makeLoan(t *testing.T, loanID, borrowerID string) *loanDomain.Loan {
	t.Helper()
	l, err := loanDomain.New(loanID, borrowerID, pricing.Terms{
		Principal:     decimal.NewFromInt(50000),
		TermMonths:    12,
		BaseRate:      decimal.NewFromInt(12),
		ReportedScore: 750,
		AnnualIncome:  decimal.NewFromInt(2000000),
	}, testNow)
	if err != nil {
		t.Fatalf("new loan: %v", err)
	}
	return l
}

package mysql

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	loanDomain "loan-ledger-service/internal/domain/loan"
	"loan-ledger-service/internal/domain/uow"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	decRepo := NewDecisionRepository(db)

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		l := makeLoan(t, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if l.ID == 0 {
			t.Fatalf("loan auto ID not set")
		}
		return r.Decisions.Create(ctx, makeDecision("11111111111111111111111111111111", l.ID, testNow))
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := loanRepo.GetByLoanID(ctx, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"); err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
	if _, err := decRepo.GetByDecisionID(ctx, "11111111111111111111111111111111"); err != nil {
		t.Fatalf("decision not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	decRepo := NewDecisionRepository(db)

	sentinel := errors.New("boom")
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		l := makeLoan(t, "cccccccccccccccccccccccccccccccc", "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if err := r.Decisions.Create(ctx, makeDecision("22222222222222222222222222222222", l.ID, testNow)); err != nil {
			return err
		}
		return sentinel // force rollback
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}

	if _, err := loanRepo.GetByLoanID(ctx, "cccccccccccccccccccccccccccccccc"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected loan not found after rollback, got %v", err)
	}
	if _, err := decRepo.GetByDecisionID(ctx, "22222222222222222222222222222222"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected decision not found after rollback, got %v", err)
	}
}

func TestGormUoW_WithinLoanTx_PaymentCommit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	seed := makeLoan(t, "dddddddddddddddddddddddddddddddd", "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	if err := seed.Approve(testNow); err != nil {
		t.Fatal(err)
	}
	if err := loanRepo.Create(ctx, seed); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	for i := 0; i < 2; i++ {
		err := guow.WithinLoanTx(ctx, seed.LoanID, func(r uow.Repos, l *loanDomain.Loan) error {
			if len(l.Transactions) != i {
				t.Fatalf("ledger not preloaded: have %d entries, want %d", len(l.Transactions), i)
			}
			entry, err := l.RecordPayment(decimal.RequireFromString("4407.43"), loanDomain.CategoryEMI, testNow)
			if err != nil {
				return err
			}
			if err := r.Transactions.Append(ctx, &entry); err != nil {
				return err
			}
			return r.Loans.Save(ctx, l)
		})
		if err != nil {
			t.Fatalf("payment %d: %v", i+1, err)
		}
	}

	got, err := loanRepo.GetByLoanID(ctx, seed.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanID post-commit: %v", err)
	}
	if got.RemainingAmount.StringFixed(2) != "44074.30" || got.Status != loanDomain.StatusApproved {
		t.Fatalf("remaining=%s status=%s", got.RemainingAmount.StringFixed(2), got.Status)
	}
	if len(got.Transactions) != 2 || got.Transactions[1].Seq != 2 {
		t.Fatalf("unexpected ledger: %+v", got.Transactions)
	}
}

func TestGormUoW_WithinLoanTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	decRepo := NewDecisionRepository(db)

	seed := makeLoan(t, "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee", "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	if err := loanRepo.Create(ctx, seed); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	sentinel := errors.New("stop")
	_ = guow.WithinLoanTx(ctx, seed.LoanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if err := l.Approve(testNow); err != nil {
			return err
		}
		d := makeDecision("33333333333333333333333333333333", l.ID, testNow)
		if err := r.Decisions.Create(ctx, d); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		return sentinel // force rollback
	})

	gotLoan, err := loanRepo.GetByLoanID(ctx, seed.LoanID)
	if err != nil {
		t.Fatalf("post-rollback GetByLoanID: %v", err)
	}
	if gotLoan.Status != loanDomain.StatusPending {
		t.Fatalf("expected pending after rollback, got %s", gotLoan.Status)
	}
	if _, err := decRepo.GetByLoanID(ctx, gotLoan.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected decision absent after rollback, got %v", err)
	}
}

func TestGormUoW_WithinLoanTx_LoanNotFound(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)

	err := guow.WithinLoanTx(ctx, "ffffffffffffffffffffffffffffffff", func(r uow.Repos, l *loanDomain.Loan) error {
		t.Fatalf("callback should not be called when loan missing")
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

package loan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "loan-ledger-service/internal/domain/loan"
	"loan-ledger-service/internal/domain/pricing"
	"loan-ledger-service/internal/infrastructure/observability"
	"loan-ledger-service/internal/testutil/loanmock"
)

var fixedNow = time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)

const borrowerA = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleQuote() QuoteInput {
	return QuoteInput{
		Principal:    d("50000"),
		TermMonths:   12,
		BaseRate:     d("12"),
		CreditScore:  750,
		AnnualIncome: d("2000000"),
	}
}

func newUsecase(repo domain.Repository) *Usecase {
	return NewUsecase(repo, observability.NewMetrics()).WithClock(func() time.Time { return fixedNow })
}

func seededLoan(t *testing.T, borrowerID string, principal string, status domain.Status) domain.Loan {
	t.Helper()
	in := sampleQuote()
	in.Principal = d(principal)
	l, err := domain.New("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", borrowerID, in.terms(), fixedNow)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	switch status {
	case domain.StatusApproved:
		_ = l.Approve(fixedNow)
	case domain.StatusRejected:
		_ = l.Reject(fixedNow)
	case domain.StatusPaid:
		_ = l.Approve(fixedNow)
		if _, err := l.RecordPayment(l.RemainingAmount, domain.CategoryEMI, fixedNow); err != nil {
			t.Fatalf("seed settle: %v", err)
		}
	}
	return *l
}

func TestQuote(t *testing.T) {
	uc := newUsecase(&loanmock.Repo{})

	q, err := uc.Quote(context.Background(), sampleQuote())
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.AdjustedScore != 779 || q.FinalRate.StringFixed(2) != "10.50" {
		t.Fatalf("score=%d rate=%s", q.AdjustedScore, q.FinalRate)
	}
	if q.MonthlyInstallment.StringFixed(2) != "4407.43" || q.TotalInterest.StringFixed(2) != "2889.16" {
		t.Fatalf("emi=%s interest=%s", q.MonthlyInstallment, q.TotalInterest)
	}

	bad := sampleQuote()
	bad.CreditScore = 900
	if _, err := uc.Quote(context.Background(), bad); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestCreate_Success(t *testing.T) {
	var saved *domain.Loan
	repo := &loanmock.Repo{
		CreateFn: func(ctx context.Context, l *domain.Loan) error {
			saved = l
			return nil
		},
	}
	uc := newUsecase(repo)

	dto, err := uc.Create(context.Background(), CreateLoanInput{BorrowerID: borrowerA, QuoteInput: sampleQuote()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if saved == nil || saved.Status != domain.StatusPending || len(saved.Transactions) != 0 {
		t.Fatalf("unexpected persisted loan: %+v", saved)
	}
	if len(dto.LoanID) != 32 || dto.BorrowerID != borrowerA {
		t.Fatalf("unexpected dto ids: %+v", dto)
	}
	if dto.Status != "pending" || dto.NextDueDate != domain.NotApplicable {
		t.Fatalf("status=%s due=%s", dto.Status, dto.NextDueDate)
	}
	if !dto.RemainingAmount.Equal(dto.TotalRepayment) || !dto.CreatedAt.Equal(fixedNow) {
		t.Fatalf("remaining=%s total=%s created=%v", dto.RemainingAmount, dto.TotalRepayment, dto.CreatedAt)
	}
}

func TestCreate_InvalidInput(t *testing.T) {
	repo := &loanmock.Repo{
		CreateFn: func(context.Context, *domain.Loan) error {
			t.Fatalf("Create must not be called for invalid input")
			return nil
		},
	}
	uc := newUsecase(repo)

	cases := map[string]CreateLoanInput{
		"bad borrower":   {BorrowerID: "short", QuoteInput: sampleQuote()},
		"upper borrower": {BorrowerID: "BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB", QuoteInput: sampleQuote()},
		"zero principal": {BorrowerID: borrowerA, QuoteInput: QuoteInput{Principal: decimal.Zero, TermMonths: 12, BaseRate: d("12"), CreditScore: 700, AnnualIncome: d("1")}},
		"zero term":      {BorrowerID: borrowerA, QuoteInput: QuoteInput{Principal: d("1"), TermMonths: 0, BaseRate: d("12"), CreditScore: 700, AnnualIncome: d("1")}},
		"score 299":      {BorrowerID: borrowerA, QuoteInput: QuoteInput{Principal: d("1"), TermMonths: 1, BaseRate: d("12"), CreditScore: 299, AnnualIncome: d("1")}},
		"no income":      {BorrowerID: borrowerA, QuoteInput: QuoteInput{Principal: d("1"), TermMonths: 1, BaseRate: d("12"), CreditScore: 700}},
	}
	for name, in := range cases {
		if _, err := uc.Create(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: want ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestCreate_RepoError(t *testing.T) {
	boom := errors.New("db down")
	uc := newUsecase(&loanmock.Repo{CreateFn: func(context.Context, *domain.Loan) error { return boom }})
	if _, err := uc.Create(context.Background(), CreateLoanInput{BorrowerID: borrowerA, QuoteInput: sampleQuote()}); !errors.Is(err, boom) {
		t.Fatalf("want %v, got %v", boom, err)
	}
}

func TestGet(t *testing.T) {
	l := seededLoan(t, borrowerA, "50000", domain.StatusApproved)
	repo := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
			if loanID == l.LoanID {
				return &l, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	uc := newUsecase(repo)

	dto, err := uc.Get(context.Background(), l.LoanID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if dto.Status != "approved" || dto.NextDueDate != "Feb 10, 2026" {
		t.Fatalf("status=%s due=%s", dto.Status, dto.NextDueDate)
	}

	if _, err := uc.Get(context.Background(), "ffffffffffffffffffffffffffffffff"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestList_ValidatesStatus(t *testing.T) {
	var got domain.Filter
	repo := &loanmock.Repo{
		ListFn: func(_ context.Context, f domain.Filter) ([]domain.Loan, error) {
			got = f
			return []domain.Loan{seededLoan(t, borrowerA, "1000", domain.StatusPending)}, nil
		},
	}
	uc := newUsecase(repo)

	out, err := uc.List(context.Background(), domain.Filter{BorrowerID: borrowerA, Status: domain.StatusPending})
	if err != nil || len(out) != 1 {
		t.Fatalf("List: out=%v err=%v", out, err)
	}
	if got.BorrowerID != borrowerA || got.Status != domain.StatusPending {
		t.Fatalf("filter not forwarded: %+v", got)
	}
	if _, err := uc.List(context.Background(), domain.Filter{Status: "closed"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestScheduleAndReport(t *testing.T) {
	l := seededLoan(t, borrowerA, "50000", domain.StatusApproved)
	if _, err := l.RecordPayment(d("4407.43"), domain.CategoryEMI, time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	repo := &loanmock.Repo{
		GetByLoanIDFn: func(context.Context, string) (*domain.Loan, error) { return &l, nil },
	}
	uc := newUsecase(repo)

	s, err := uc.Schedule(context.Background(), l.LoanID)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(s.Rows) != 12 {
		t.Fatalf("rows = %d, want 12", len(s.Rows))
	}
	first, last := s.Rows[0], s.Rows[11]
	if first.Interest.StringFixed(2) != "437.50" || first.Principal.StringFixed(2) != "3969.93" {
		t.Fatalf("first row = %+v", first)
	}
	if !last.Balance.IsZero() {
		t.Fatalf("last balance = %s", last.Balance)
	}
	sum := decimal.Zero
	for _, r := range s.Rows {
		sum = sum.Add(r.Principal)
	}
	if sum.Sub(l.Principal).Abs().GreaterThan(pricing.Tolerance) {
		t.Fatalf("principal column sums to %s", sum)
	}

	rep, err := uc.Report(context.Background(), l.LoanID)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(rep.Ledger) != 1 || rep.Ledger[0].Flow != "CREDIT" || rep.Ledger[0].Seq != 1 {
		t.Fatalf("ledger = %+v", rep.Ledger)
	}
	if rep.NextDueDate != "Mar 10, 2026" || !rep.GeneratedAt.Equal(fixedNow) {
		t.Fatalf("due=%s generated=%v", rep.NextDueDate, rep.GeneratedAt)
	}
	if len(rep.Schedule) != 12 {
		t.Fatalf("report schedule rows = %d", len(rep.Schedule))
	}
}

func TestBorrowerSummary(t *testing.T) {
	loans := []domain.Loan{
		seededLoan(t, borrowerA, "50000", domain.StatusApproved),
		seededLoan(t, borrowerA, "10000", domain.StatusPaid),
		seededLoan(t, borrowerA, "20000", domain.StatusPending),
		seededLoan(t, borrowerA, "30000", domain.StatusRejected),
	}
	repo := &loanmock.Repo{
		ListFn: func(_ context.Context, f domain.Filter) ([]domain.Loan, error) {
			if f.BorrowerID != borrowerA {
				t.Fatalf("filter = %+v", f)
			}
			return loans, nil
		},
	}
	uc := newUsecase(repo)

	s, err := uc.BorrowerSummary(context.Background(), borrowerA)
	if err != nil {
		t.Fatalf("BorrowerSummary: %v", err)
	}
	if s.LoansApplied != 4 || s.LoansApproved != 2 || s.LoansPending != 1 {
		t.Fatalf("counts = %+v", s)
	}
	if s.ApprovedValue.StringFixed(2) != "60000.00" {
		t.Fatalf("approved value = %s", s.ApprovedValue)
	}
	if !s.TotalOutstanding.Equal(loans[0].RemainingAmount) {
		t.Fatalf("outstanding = %s, want %s", s.TotalOutstanding, loans[0].RemainingAmount)
	}
	if s.NextInstallment.StringFixed(2) != "4407.43" || s.NextDueDate != "Feb 10, 2026" {
		t.Fatalf("next = %s on %s", s.NextInstallment, s.NextDueDate)
	}

	if _, err := uc.BorrowerSummary(context.Background(), "nope"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestBorrowerSummary_NoApprovedLoan(t *testing.T) {
	uc := newUsecase(&loanmock.Repo{
		ListFn: func(context.Context, domain.Filter) ([]domain.Loan, error) {
			return []domain.Loan{seededLoan(t, borrowerA, "1000", domain.StatusPending)}, nil
		},
	})
	s, err := uc.BorrowerSummary(context.Background(), borrowerA)
	if err != nil {
		t.Fatalf("BorrowerSummary: %v", err)
	}
	if s.NextDueDate != domain.NotApplicable || !s.NextInstallment.IsZero() || !s.TotalOutstanding.IsZero() {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestPortfolioSummary(t *testing.T) {
	const borrowerB = "cccccccccccccccccccccccccccccccc"
	loans := []domain.Loan{
		seededLoan(t, borrowerA, "50000", domain.StatusApproved),
		seededLoan(t, borrowerA, "10000", domain.StatusPaid),
		seededLoan(t, borrowerB, "20000", domain.StatusPending),
		seededLoan(t, borrowerB, "30000", domain.StatusRejected),
	}
	uc := newUsecase(&loanmock.Repo{
		ListFn: func(_ context.Context, f domain.Filter) ([]domain.Loan, error) {
			if f != (domain.Filter{}) {
				t.Fatalf("portfolio must list everything, got %+v", f)
			}
			return loans, nil
		},
	})

	s, err := uc.PortfolioSummary(context.Background())
	if err != nil {
		t.Fatalf("PortfolioSummary: %v", err)
	}
	if s.TotalLoans != 4 || s.Borrowers != 2 || s.PendingLoans != 1 {
		t.Fatalf("counts = %+v", s)
	}
	if s.ApprovedValue.StringFixed(2) != "60000.00" {
		t.Fatalf("approved value = %s", s.ApprovedValue)
	}
	for status, want := range map[string]int{"pending": 1, "approved": 1, "rejected": 1, "paid": 1} {
		if s.ByStatus[status] != want {
			t.Fatalf("by_status[%s] = %d", status, s.ByStatus[status])
		}
	}
}

package loan

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"loan-ledger-service/internal/domain/loan"
	"loan-ledger-service/internal/domain/pricing"
	"loan-ledger-service/internal/infrastructure/observability"
	"loan-ledger-service/pkg/id"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

type Usecase struct {
	repo    loan.Repository
	metrics *observability.Metrics
	now     func() time.Time
}

func NewUsecase(r loan.Repository, m *observability.Metrics) *Usecase {
	return &Usecase{repo: r, metrics: m, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source; used by tests.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// MapNotFound turns a repository miss into loan.ErrNotFound.
func MapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return loan.ErrNotFound
	}
	return err
}

func (in QuoteInput) terms() pricing.Terms {
	return pricing.Terms{
		Principal:     in.Principal,
		TermMonths:    in.TermMonths,
		BaseRate:      in.BaseRate,
		ReportedScore: in.CreditScore,
		AnnualIncome:  in.AnnualIncome,
	}
}

// Quote prices the terms without storing anything.
func (u *Usecase) Quote(_ context.Context, in QuoteInput) (*QuoteDTO, error) {
	t := in.terms()
	if err := loan.ValidateTerms(t); err != nil {
		return nil, err
	}
	q := pricing.Price(t)
	return &QuoteDTO{
		AdjustedScore:      q.AdjustedScore,
		FinalRate:          q.FinalRate,
		MonthlyInstallment: q.EMI,
		TotalRepayment:     q.TotalRepayment,
		TotalInterest:      q.TotalInterest,
	}, nil
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if !reHex32.MatchString(in.BorrowerID) {
		return nil, fmt.Errorf("%w: borrower_id must be 32 lowercase hex characters", loan.ErrInvalidInput)
	}
	l, err := loan.New(id.NewID32(), in.BorrowerID, in.terms(), u.now())
	if err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, l); err != nil {
		log.Error().Err(err).Str("borrower_id", in.BorrowerID).Msg("create loan")
		return nil, err
	}
	u.metrics.IncApplication()
	log.Info().
		Str("loan_id", l.LoanID).
		Str("borrower_id", l.BorrowerID).
		Str("principal", l.Principal.StringFixed(2)).
		Str("rate", l.InterestRate.StringFixed(2)).
		Msg("loan created")

	dto := ToDTO(l)
	return &dto, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, MapNotFound(err)
	}
	dto := ToDTO(l)
	return &dto, nil
}

func (u *Usecase) List(ctx context.Context, f loan.Filter) ([]LoanDTO, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", loan.ErrInvalidInput, f.Status)
	}
	loans, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, ToDTO(&loans[i]))
	}
	return out, nil
}

// Schedule rebuilds the amortization table from the stored terms.
func (u *Usecase) Schedule(ctx context.Context, loanID string) (*ScheduleDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, MapNotFound(err)
	}
	return &ScheduleDTO{
		LoanID:             l.LoanID,
		MonthlyInstallment: l.MonthlyInstallment,
		Rows:               scheduleOf(l),
	}, nil
}

func (u *Usecase) Report(ctx context.Context, loanID string) (*ReportDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, MapNotFound(err)
	}
	return &ReportDTO{
		Loan:        ToDTO(l),
		Schedule:    scheduleOf(l),
		Ledger:      EntriesOf(l.Transactions),
		NextDueDate: loan.DueDateLabel(l),
		GeneratedAt: u.now(),
	}, nil
}

func (u *Usecase) BorrowerSummary(ctx context.Context, borrowerID string) (*BorrowerSummaryDTO, error) {
	if !reHex32.MatchString(borrowerID) {
		return nil, fmt.Errorf("%w: borrower_id must be 32 lowercase hex characters", loan.ErrInvalidInput)
	}
	loans, err := u.repo.List(ctx, loan.Filter{BorrowerID: borrowerID})
	if err != nil {
		return nil, err
	}

	s := &BorrowerSummaryDTO{
		BorrowerID:       borrowerID,
		LoansApplied:     len(loans),
		ApprovedValue:    decimal.Zero,
		TotalOutstanding: decimal.Zero,
		NextInstallment:  decimal.Zero,
		NextDueDate:      loan.NotApplicable,
	}
	var next *loan.Loan
	for i := range loans {
		l := &loans[i]
		switch l.Status {
		case loan.StatusPending:
			s.LoansPending++
		case loan.StatusApproved:
			s.TotalOutstanding = s.TotalOutstanding.Add(l.RemainingAmount)
			if next == nil {
				next = l
			}
			fallthrough
		case loan.StatusPaid:
			s.LoansApproved++
			s.ApprovedValue = s.ApprovedValue.Add(l.Principal)
		}
	}
	if next != nil {
		s.NextInstallment = next.MonthlyInstallment
		s.NextDueDate = loan.DueDateLabel(next)
	}
	return s, nil
}

func (u *Usecase) PortfolioSummary(ctx context.Context) (*PortfolioSummaryDTO, error) {
	loans, err := u.repo.List(ctx, loan.Filter{})
	if err != nil {
		return nil, err
	}

	s := &PortfolioSummaryDTO{
		TotalLoans:       len(loans),
		ApprovedValue:    decimal.Zero,
		TotalOutstanding: decimal.Zero,
		ByStatus: map[string]int{
			string(loan.StatusPending):  0,
			string(loan.StatusApproved): 0,
			string(loan.StatusRejected): 0,
			string(loan.StatusPaid):     0,
		},
	}
	borrowers := make(map[string]struct{})
	for i := range loans {
		l := &loans[i]
		borrowers[l.BorrowerID] = struct{}{}
		s.ByStatus[string(l.Status)]++
		switch l.Status {
		case loan.StatusPending:
			s.PendingLoans++
		case loan.StatusApproved:
			s.TotalOutstanding = s.TotalOutstanding.Add(l.RemainingAmount)
			fallthrough
		case loan.StatusPaid:
			s.ApprovedValue = s.ApprovedValue.Add(l.Principal)
		}
	}
	s.Borrowers = len(borrowers)
	return s, nil
}

func scheduleOf(l *loan.Loan) []pricing.ScheduleRow {
	rows := pricing.BuildSchedule(l.Principal, l.InterestRate, l.TermMonths, l.MonthlyInstallment)
	return pricing.RoundSchedule(l.Principal, rows)
}

func ToDTO(l *loan.Loan) LoanDTO {
	return LoanDTO{
		LoanID:             l.LoanID,
		BorrowerID:         l.BorrowerID,
		Principal:          l.Principal,
		TermMonths:         l.TermMonths,
		BaseRate:           l.BaseRate,
		CreditScore:        l.ReportedScore,
		AnnualIncome:       l.AnnualIncome,
		AdjustedScore:      l.AdjustedScore,
		InterestRate:       l.InterestRate,
		MonthlyInstallment: l.MonthlyInstallment,
		TotalRepayment:     l.TotalRepayment,
		TotalInterest:      l.TotalInterest,
		TotalPaid:          l.TotalPaid,
		RemainingAmount:    l.RemainingAmount,
		PenaltyAmount:      l.PenaltyAmount,
		PenaltyDays:        l.PenaltyDays,
		RefundAmount:       l.RefundAmount,
		Status:             string(l.Status),
		StatusUpdatedAt:    l.StatusUpdatedAt,
		NextDueDate:        loan.DueDateLabel(l),
		CreatedAt:          l.CreatedAt,
	}
}

func EntryOf(t loan.Transaction) EntryDTO {
	return EntryDTO{
		EntryID:  t.EntryID,
		Seq:      t.Seq,
		Date:     t.Date,
		Amount:   t.Amount,
		Category: string(t.Category),
		Flow:     string(t.Flow),
	}
}

func EntriesOf(ts []loan.Transaction) []EntryDTO {
	out := make([]EntryDTO, 0, len(ts))
	for _, t := range ts {
		out = append(out, EntryOf(t))
	}
	return out
}

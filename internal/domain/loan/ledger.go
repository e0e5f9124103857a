package loan

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"loan-ledger-service/internal/domain/pricing"
)

// Policy holds the fixed amounts applied by penalties and refunds.
type Policy struct {
	PenaltyFine  decimal.Decimal
	PenaltyDays  int
	RefundAmount decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		PenaltyFine:  decimal.RequireFromString("100.00"),
		PenaltyDays:  30,
		RefundAmount: decimal.RequireFromString("50.00"),
	}
}

// ValidateTerms rejects out-of-range applicant inputs before pricing.
func ValidateTerms(t pricing.Terms) error {
	switch {
	case !t.Principal.IsPositive():
		return fmt.Errorf("%w: principal must be positive", ErrInvalidInput)
	case t.TermMonths <= 0:
		return fmt.Errorf("%w: term must be at least one month", ErrInvalidInput)
	case !t.BaseRate.IsPositive():
		return fmt.Errorf("%w: base rate must be positive", ErrInvalidInput)
	case t.ReportedScore < pricing.MinScore || t.ReportedScore > pricing.MaxScore:
		return fmt.Errorf("%w: credit score must be between %d and %d", ErrInvalidInput, pricing.MinScore, pricing.MaxScore)
	case !t.AnnualIncome.IsPositive():
		return fmt.Errorf("%w: annual income must be positive", ErrInvalidInput)
	}
	return nil
}

// New prices the terms and returns a pending loan with an empty ledger.
func New(loanID, borrowerID string, t pricing.Terms, now time.Time) (*Loan, error) {
	if err := ValidateTerms(t); err != nil {
		return nil, err
	}
	q := pricing.Price(t)
	return &Loan{
		LoanID:             loanID,
		BorrowerID:         borrowerID,
		Principal:          t.Principal,
		TermMonths:         t.TermMonths,
		BaseRate:           t.BaseRate,
		ReportedScore:      t.ReportedScore,
		AnnualIncome:       t.AnnualIncome,
		AdjustedScore:      q.AdjustedScore,
		InterestRate:       q.FinalRate,
		MonthlyInstallment: q.EMI,
		TotalRepayment:     q.TotalRepayment,
		TotalInterest:      q.TotalInterest,
		TotalPaid:          decimal.Zero,
		RemainingAmount:    q.TotalRepayment,
		PenaltyAmount:      decimal.Zero,
		RefundAmount:       decimal.Zero,
		Status:             StatusPending,
		StatusUpdatedAt:    now,
		CreatedAt:          now,
	}, nil
}

// Balance is the amount owed from repayment, penalty and payment totals.
// Refunds are not part of it; a payment resets RemainingAmount to Balance.
func (l *Loan) Balance() decimal.Decimal {
	return pricing.Round2(l.TotalRepayment.Add(l.PenaltyAmount).Sub(l.TotalPaid))
}

func (l *Loan) Approve(now time.Time) error { return l.decide(StatusApproved, now) }

func (l *Loan) Reject(now time.Time) error { return l.decide(StatusRejected, now) }

func (l *Loan) decide(to Status, now time.Time) error {
	if err := l.transition(to); err != nil {
		return err
	}
	l.StatusUpdatedAt = now
	return nil
}

// RecordPayment credits amount to the loan. A payment that leaves at most
// pricing.Tolerance outstanding settles the loan and moves it to paid.
func (l *Loan) RecordPayment(amount decimal.Decimal, category Category, now time.Time) (Transaction, error) {
	if err := l.checkOperation(OpPayment); err != nil {
		return Transaction{}, err
	}
	if category == "" {
		category = CategoryEMI
	}
	if category != CategoryEMI && category != CategoryPrepayment {
		return Transaction{}, fmt.Errorf("%w: %q is not a payment category", ErrInvalidInput, category)
	}
	amount = pricing.Round2(amount)
	if !amount.IsPositive() {
		return Transaction{}, fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
	}
	if l.RemainingAmount.Sub(amount).LessThan(pricing.Tolerance.Neg()) {
		return Transaction{}, fmt.Errorf("%w: %s against %s", ErrOverpayment, amount.StringFixed(2), l.RemainingAmount.StringFixed(2))
	}

	paid := l.TotalPaid.Add(amount)
	remaining := pricing.Round2(l.TotalRepayment.Add(l.PenaltyAmount).Sub(paid))
	settled := remaining.LessThanOrEqual(pricing.Tolerance)
	if settled && !CanTransition(l.Status, StatusPaid) {
		return Transaction{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.Status, StatusPaid)
	}

	l.TotalPaid = paid
	l.RemainingAmount = remaining
	t := l.appendEntry(now, amount, category, FlowCredit)
	if settled {
		l.RemainingAmount = decimal.Zero
		l.Status = StatusPaid
		l.StatusUpdatedAt = now
	}
	return t, nil
}

// AddPenalty debits the policy fine and extends the penalty days.
func (l *Loan) AddPenalty(p Policy, now time.Time) (Transaction, error) {
	if err := l.checkOperation(OpPenalty); err != nil {
		return Transaction{}, err
	}
	fine := pricing.Round2(p.PenaltyFine)
	l.PenaltyDays += p.PenaltyDays
	l.PenaltyAmount = l.PenaltyAmount.Add(fine)
	l.RemainingAmount = l.RemainingAmount.Add(fine)
	return l.appendEntry(now, fine, CategoryPenalty, FlowDebit), nil
}

// AddRefund credits the policy refund against RemainingAmount only. The
// balance may go below zero, which records money owed back to the borrower.
// RefundAmount is a reporting total; the next payment recomputes the balance
// without it.
func (l *Loan) AddRefund(p Policy, now time.Time) (Transaction, error) {
	if err := l.checkOperation(OpRefund); err != nil {
		return Transaction{}, err
	}
	refund := pricing.Round2(p.RefundAmount)
	l.RefundAmount = l.RefundAmount.Add(refund)
	l.RemainingAmount = l.RemainingAmount.Sub(refund)
	return l.appendEntry(now, refund, CategoryRefund, FlowCredit), nil
}

func (l *Loan) appendEntry(now time.Time, amount decimal.Decimal, c Category, f Flow) Transaction {
	t := Transaction{
		EntryID:  uuid.NewString(),
		LoanID:   l.ID,
		Seq:      len(l.Transactions) + 1,
		Date:     now,
		Amount:   amount,
		Category: c,
		Flow:     f,
	}
	l.Transactions = append(l.Transactions, t)
	return t
}

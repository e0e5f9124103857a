package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"loan-ledger-service/internal/domain/loan"
	"loan-ledger-service/internal/domain/uow"
	"loan-ledger-service/internal/infrastructure/observability"
	loanuc "loan-ledger-service/internal/usecase/loan"
	"loan-ledger-service/pkg/keylock"
)

type Usecase struct {
	uow     uow.UnitOfWork
	locks   *keylock.Map
	policy  loan.Policy
	metrics *observability.Metrics
	now     func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, locks *keylock.Map, p loan.Policy, m *observability.Metrics) *Usecase {
	return &Usecase{uow: tx, locks: locks, policy: p, metrics: m, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) RecordPayment(ctx context.Context, in PaymentInput) (*EntryResultDTO, error) {
	return u.mutate(ctx, in.LoanID, loan.OpPayment, func(l *loan.Loan, now time.Time) (loan.Transaction, error) {
		return l.RecordPayment(in.Amount, loan.Category(in.Category), now)
	})
}

func (u *Usecase) AddPenalty(ctx context.Context, loanID string) (*EntryResultDTO, error) {
	return u.mutate(ctx, loanID, loan.OpPenalty, func(l *loan.Loan, now time.Time) (loan.Transaction, error) {
		return l.AddPenalty(u.policy, now)
	})
}

func (u *Usecase) AddRefund(ctx context.Context, loanID string) (*EntryResultDTO, error) {
	return u.mutate(ctx, loanID, loan.OpRefund, func(l *loan.Loan, now time.Time) (loan.Transaction, error) {
		return l.AddRefund(u.policy, now)
	})
}

// Ledger returns the entries of a loan in sequence order.
func (u *Usecase) Ledger(ctx context.Context, loanID string) (*LedgerDTO, error) {
	var out *LedgerDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		entries, err := r.Transactions.ListByLoan(ctx, l.ID)
		if err != nil {
			return err
		}
		l.Transactions = entries
		out = &LedgerDTO{
			LoanID:          l.LoanID,
			Status:          string(l.Status),
			RemainingAmount: l.RemainingAmount,
			Entries:         loanuc.EntriesOf(entries),
			NextDueDate:     loan.DueDateLabel(l),
		}
		return nil
	})
	if err != nil {
		return nil, loanuc.MapNotFound(err)
	}
	return out, nil
}

// mutate applies one ledger operation under the loan's process lock and row
// lock. apply validates before it changes the loan, so a rejected operation
// leaves nothing to roll back.
func (u *Usecase) mutate(ctx context.Context, loanID string, op loan.Operation,
	apply func(l *loan.Loan, now time.Time) (loan.Transaction, error)) (*EntryResultDTO, error) {

	unlock := u.locks.Lock(loanID)
	defer unlock()

	var res *EntryResultDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		entry, err := apply(l, u.now())
		if err != nil {
			return err
		}
		if err := r.Transactions.Append(ctx, &entry); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		res = &EntryResultDTO{Entry: loanuc.EntryOf(entry), Loan: loanuc.ToDTO(l)}
		return nil
	})
	if err != nil {
		err = loanuc.MapNotFound(err)
		if reason := rejectionReason(err); reason != "" {
			u.metrics.IncLedgerRejection(string(op), reason)
			log.Warn().Err(err).Str("loan_id", loanID).Str("operation", string(op)).Msg("ledger operation rejected")
		} else {
			log.Error().Err(err).Str("loan_id", loanID).Str("operation", string(op)).Msg("ledger operation failed")
		}
		return nil, err
	}

	u.metrics.IncLedgerEntry(res.Entry.Category, res.Entry.Flow)
	log.Info().
		Str("loan_id", loanID).
		Str("category", res.Entry.Category).
		Str("flow", res.Entry.Flow).
		Str("amount", res.Entry.Amount.StringFixed(2)).
		Str("remaining", res.Loan.RemainingAmount.StringFixed(2)).
		Str("status", res.Loan.Status).
		Msg("ledger entry recorded")
	return res, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, loan.ErrOverpayment):
		return "overpayment"
	case errors.Is(err, loan.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, loan.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, loan.ErrNotFound):
		return "not_found"
	}
	return ""
}

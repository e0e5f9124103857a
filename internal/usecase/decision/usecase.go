package decision

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	domainDecision "loan-ledger-service/internal/domain/decision"
	domainLoan "loan-ledger-service/internal/domain/loan"
	"loan-ledger-service/internal/domain/uow"
	"loan-ledger-service/internal/infrastructure/observability"
	loanuc "loan-ledger-service/internal/usecase/loan"
	"loan-ledger-service/pkg/id"
	"loan-ledger-service/pkg/keylock"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

type Usecase struct {
	uow     uow.UnitOfWork
	locks   *keylock.Map
	metrics *observability.Metrics
	now     func() time.Time
}

// NewUsecase shares locks with every other usecase that mutates loans.
func NewUsecase(tx uow.UnitOfWork, locks *keylock.Map, m *observability.Metrics) *Usecase {
	return &Usecase{uow: tx, locks: locks, metrics: m, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) Approve(ctx context.Context, in DecideInput) (*DecisionDTO, error) {
	return u.decide(ctx, in, domainDecision.OutcomeApproved)
}

func (u *Usecase) Reject(ctx context.Context, in DecideInput) (*DecisionDTO, error) {
	return u.decide(ctx, in, domainDecision.OutcomeRejected)
}

func (u *Usecase) decide(ctx context.Context, in DecideInput, outcome domainDecision.Outcome) (*DecisionDTO, error) {
	if !reHex32.MatchString(in.DecidedBy) {
		return nil, fmt.Errorf("%w: decided_by must be 32 lowercase hex characters", domainLoan.ErrInvalidInput)
	}
	now := u.now()
	decidedAt := in.DecidedAt.UTC()
	if in.DecidedAt.IsZero() {
		decidedAt = now
	}

	unlock := u.locks.Lock(in.LoanID)
	defer unlock()

	var dto *DecisionDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		var err error
		if outcome == domainDecision.OutcomeApproved {
			err = l.Approve(now)
		} else {
			err = l.Reject(now)
		}
		if err != nil {
			return err
		}

		// a stored decision means the loan row and the decision table disagree
		if _, err := r.Decisions.GetByLoanID(ctx, l.ID); err == nil {
			return fmt.Errorf("%w: loan %s already has a decision", domainLoan.ErrInvalidTransition, l.LoanID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, domainDecision.ErrNotFound) {
			return err
		}

		d := &domainDecision.Decision{
			DecisionID: id.NewID32(),
			LoanID:     l.ID, // numeric FK
			Outcome:    outcome,
			DecidedBy:  in.DecidedBy,
			Note:       in.Note,
			DecidedAt:  decidedAt,
		}
		if err := r.Decisions.Create(ctx, d); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		dto = &DecisionDTO{
			DecisionID: d.DecisionID,
			LoanID:     l.LoanID, // public id
			Outcome:    string(d.Outcome),
			DecidedBy:  d.DecidedBy,
			Note:       d.Note,
			DecidedAt:  d.DecidedAt,
			Loan:       loanuc.ToDTO(l),
		}
		return nil
	})
	if err != nil {
		err = loanuc.MapNotFound(err)
		if !errors.Is(err, domainLoan.ErrInvalidTransition) && !errors.Is(err, domainLoan.ErrNotFound) {
			log.Error().Err(err).Str("loan_id", in.LoanID).Str("outcome", string(outcome)).Msg("decide loan")
		}
		return nil, err
	}

	u.metrics.IncDecision(string(outcome))
	log.Info().
		Str("loan_id", dto.LoanID).
		Str("outcome", dto.Outcome).
		Str("decided_by", dto.DecidedBy).
		Msg("loan decided")
	return dto, nil
}

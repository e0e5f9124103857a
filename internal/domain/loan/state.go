package loan

import "fmt"

// transitions lists every status change the lifecycle allows.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusPaid},
}

// Operation names a ledger mutation for the allowed-state table.
type Operation string

const (
	OpPayment Operation = "payment"
	OpPenalty Operation = "penalty"
	OpRefund  Operation = "refund"
)

var operationStates = map[Operation][]Status{
	OpPayment: {StatusApproved},
	OpPenalty: {StatusApproved},
	OpRefund:  {StatusApproved, StatusPaid},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusPaid:
		return true
	}
	return false
}

// Terminal reports whether no further transition leaves s.
func (s Status) Terminal() bool { return len(transitions[s]) == 0 }

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Allows reports whether a loan in status s accepts op.
func (s Status) Allows(op Operation) bool {
	for _, allowed := range operationStates[op] {
		if allowed == s {
			return true
		}
	}
	return false
}

func (l *Loan) checkOperation(op Operation) error {
	if !l.Status.Allows(op) {
		return fmt.Errorf("%w: %s not allowed on %s loan", ErrInvalidTransition, op, l.Status)
	}
	return nil
}

func (l *Loan) transition(to Status) error {
	if !CanTransition(l.Status, to) {
		if l.Status == StatusApproved && to == StatusApproved {
			return ErrAlreadyApproved
		}
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.Status, to)
	}
	l.Status = to
	return nil
}

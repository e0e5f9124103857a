package loan

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidInput      = errors.New("invalid loan input")
	ErrInvalidTransition = errors.New("invalid loan state transition")
	ErrOverpayment       = errors.New("payment exceeds remaining balance")

	// ErrAlreadyApproved is the invalid transition of approving an approved loan.
	ErrAlreadyApproved = fmt.Errorf("loan already approved: %w", ErrInvalidTransition)
)

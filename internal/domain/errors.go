package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNonPositiveAmount   = errors.New("transaction amount must be greater than zero")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCardAlreadyBlocked  = errors.New("card is already blocked")
)

// InvalidTransitionError reports an attempted status transition that is not
// permitted from the current status.
type InvalidTransitionError struct {
	From TransactionStatus
	To   TransactionStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

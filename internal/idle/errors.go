package idle

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownHelper is returned when a helper id is not in the catalog.
	ErrUnknownHelper = errors.New("unknown helper")
	// ErrInsufficientFunds is returned when the balance does not cover a cost.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// InsufficientFundsError carries the numbers behind a rejected purchase.
type InsufficientFundsError struct {
	Item    string
	Cost    int64
	Balance int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: %s costs %d, balance is %d", ErrInsufficientFunds, e.Item, e.Cost, e.Balance)
}

// Is makes errors.Is(err, ErrInsufficientFunds) match.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// Missing returns how many credits are still needed.
func (e *InsufficientFundsError) Missing() int64 {
	return e.Cost - e.Balance
}

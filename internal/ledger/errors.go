package ledger

import (
	"errors"
	"fmt"
)

// ErrPersistence matches every PersistenceError via errors.Is.
var ErrPersistence = errors.New("ledger persistence failure")

// PersistenceError reports a failed ledger write. The trade or point was not recorded.
type PersistenceError struct {
	Op      string // "record_trade" or "update_equity_curve"
	TradeID string // empty for equity curve writes
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.TradeID != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.TradeID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes both ErrPersistence and the underlying storage error.
func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

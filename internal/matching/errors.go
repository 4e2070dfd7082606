package matching

import (
	"errors"
	"fmt"
)

// Ledger lifecycle errors. A ledger is built with Add, sealed once with
// Finish, and only then queried for pairs.
var (
	// ErrLedgerFinalized is returned when Add is called after Finish.
	ErrLedgerFinalized = errors.New("ledger already finalized")

	// ErrLedgerNotFinalized is returned when pairs are requested before Finish.
	ErrLedgerNotFinalized = errors.New("ledger not finalized")

	// ErrSymbolMismatch is returned when a trade is added to a ledger
	// for a different symbol.
	ErrSymbolMismatch = errors.New("trade symbol does not match ledger symbol")
)

// UnbalancedPositionError reports that matching finished with unmatched
// quantity left in a queue: the instrument never fully closed. The
// matcher never repairs this itself; resolution happens in ledger
// finalization before matching runs.
type UnbalancedPositionError struct {
	Instrument string
	Trades     int // number of input trades offered to the matcher
}

func (e *UnbalancedPositionError) Error() string {
	return fmt.Sprintf("unbalanced position for %s: queue not empty after %d trades, check for missing open/close transactions",
		e.Instrument, e.Trades)
}

// OpenOptionPositionError reports a nonzero net quantity on an option
// contract at finalization when auto-close is disabled.
type OpenOptionPositionError struct {
	Contract string
	Residual int64
}

func (e *OpenOptionPositionError) Error() string {
	return fmt.Sprintf("option %s has open quantity %d", e.Contract, e.Residual)
}

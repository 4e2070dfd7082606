package matching

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"capgains/internal/domain"
)

// DiagnosticKind labels a non-fatal repair applied during finalization.
type DiagnosticKind string

const (
	// DiagConfusionFlip: an option group only balanced after flipping
	// the sign of its ambiguous-direction trades.
	DiagConfusionFlip DiagnosticKind = "confusion_flip"

	// DiagSyntheticClose: a dangling option position was force-closed
	// with a zero-price synthetic trade.
	DiagSyntheticClose DiagnosticKind = "synthetic_close"
)

// Diagnostic reports a repair so callers can audit approximations.
type Diagnostic struct {
	Kind     DiagnosticKind
	Symbol   string
	Contract string
	Residual int64 // quantity closed or flipped group residual
}

// PositionLedger aggregates all trades for one underlying symbol: stock
// trades in one list, option trades grouped per contract. It is
// two-phase: Add during ingestion, one Finish call to sort and repair,
// then read-only pairing queries.
type PositionLedger struct {
	symbol       string
	closeOptions bool
	stock        []*domain.Trade
	options      map[string][]*domain.Trade
	contractKeys []string // insertion order of first sight
	finalized    bool
}

// NewPositionLedger creates an empty ledger for symbol. When
// closeOptions is set, contracts that never algebraically close are
// repaired with a zero-price synthetic trade instead of failing.
func NewPositionLedger(symbol string, closeOptions bool) *PositionLedger {
	return &PositionLedger{
		symbol:       domain.NormalizeSymbol(symbol),
		closeOptions: closeOptions,
		options:      make(map[string][]*domain.Trade),
	}
}

// Symbol returns the underlying symbol this ledger is scoped to.
func (l *PositionLedger) Symbol() string { return l.symbol }

// StockTrades returns the ledger's stock trades. After Finish they are
// sorted by date.
func (l *PositionLedger) StockTrades() []*domain.Trade { return l.stock }

// ContractKeys returns the option contract keys in first-sight order.
func (l *PositionLedger) ContractKeys() []string { return l.contractKeys }

// ContractTrades returns the trades for one option contract key.
func (l *PositionLedger) ContractTrades(key string) []*domain.Trade { return l.options[key] }

// Add appends a trade to the ledger, grouping options per contract.
func (l *PositionLedger) Add(t *domain.Trade) error {
	if l.finalized {
		return ErrLedgerFinalized
	}
	if t.Symbol != l.symbol {
		return ErrSymbolMismatch
	}
	switch t.Kind {
	case domain.SecurityStock:
		l.stock = append(l.stock, t)
	case domain.SecurityOption:
		key := t.Option.Key()
		if _, seen := l.options[key]; !seen {
			l.contractKeys = append(l.contractKeys, key)
		}
		l.options[key] = append(l.options[key], t)
	default:
		return fmt.Errorf("trade %s: unknown security kind %q", t, t.Kind)
	}
	return nil
}

// Finish seals the ledger: sorts stock trades by date (stable, so
// same-day input order is preserved for FIFO), resolves
// ambiguous-direction option groups, and repairs or rejects contracts
// with nonzero net quantity. Called exactly once.
func (l *PositionLedger) Finish() ([]Diagnostic, error) {
	if l.finalized {
		return nil, ErrLedgerFinalized
	}

	sort.SliceStable(l.stock, func(i, j int) bool {
		return l.stock[i].Date.Before(l.stock[j].Date)
	})

	var diags []Diagnostic

	// Expiration rows from some sources do not say whether the expired
	// position was long or short. If the group balances only when every
	// ambiguous quantity is negated, the direction is algebraically
	// inferable: flip in place. Any other imbalance falls through to the
	// close step below.
	for _, key := range l.contractKeys {
		trades := l.options[key]
		var normal, ambiguous int64
		for _, t := range trades {
			if t.Hint == domain.DispositionAmbiguous {
				ambiguous += t.Quantity
			} else {
				normal += t.Quantity
			}
		}
		if normal == 0 && ambiguous == 0 {
			continue
		}
		if normal+ambiguous == 0 {
			continue
		}
		if normal-ambiguous == 0 {
			for _, t := range trades {
				if t.Hint == domain.DispositionAmbiguous {
					t.Quantity = -t.Quantity
				}
			}
			diags = append(diags, Diagnostic{
				Kind:     DiagConfusionFlip,
				Symbol:   l.symbol,
				Contract: key,
				Residual: ambiguous,
			})
		}
	}

	for _, key := range l.contractKeys {
		trades := l.options[key]
		var net int64
		for _, t := range trades {
			net += t.Quantity
		}
		if net == 0 {
			continue
		}
		if !l.closeOptions {
			return diags, &OpenOptionPositionError{Contract: key, Residual: net}
		}
		// Assume a worthless expiration: close at price zero, flagged
		// synthetic so downstream consumers can tell it from a real fill.
		synth := trades[0].Copy()
		synth.Quantity = -net
		synth.Price = decimal.Zero
		synth.Synthetic = true
		l.options[key] = append(trades, synth)
		diags = append(diags, Diagnostic{
			Kind:     DiagSyntheticClose,
			Symbol:   l.symbol,
			Contract: key,
			Residual: net,
		})
	}

	l.finalized = true
	return diags, nil
}

// StockPairs matches the ledger's stock trades. Pure given unchanged
// input: every call re-runs matching and yields the same pairs.
func (l *PositionLedger) StockPairs() ([]*domain.TradePair, error) {
	if !l.finalized {
		return nil, ErrLedgerNotFinalized
	}
	return PairTrades(l.symbol, l.stock)
}

// OptionPairs matches every option contract group and concatenates the
// results in first-sight contract order.
func (l *PositionLedger) OptionPairs() ([]*domain.TradePair, error) {
	if !l.finalized {
		return nil, ErrLedgerNotFinalized
	}
	var pairs []*domain.TradePair
	for _, key := range l.contractKeys {
		contractPairs, err := PairTrades(key, l.options[key])
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, contractPairs...)
	}
	return pairs, nil
}

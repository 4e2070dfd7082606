// Package gains folds matched trade pairs into realized-gain totals.
package gains

import (
	"sort"

	"github.com/shopspring/decimal"

	"capgains/internal/domain"
	"capgains/internal/matching"
)

// SymbolGains holds the realized-gain buckets for one symbol.
type SymbolGains struct {
	Symbol   string
	Short    decimal.Decimal // stock, short-term
	Long     decimal.Decimal // stock, long-term
	OptShort decimal.Decimal // options, short-term
	OptLong  decimal.Decimal // options, long-term
}

// Totals is the grand total across all symbols.
type Totals struct {
	Short decimal.Decimal
	Long  decimal.Decimal
}

// bucket splits pairs into short/long-term profit sums.
func bucket(pairs []*domain.TradePair) (short, long decimal.Decimal) {
	for _, p := range pairs {
		if p.ShortTerm {
			short = short.Add(p.Profit)
		} else {
			long = long.Add(p.Profit)
		}
	}
	return short, long
}

// Aggregate computes per-symbol gains for every ledger plus the grand
// total. It performs no matching logic of its own: each ledger's pairing
// queries are pure, so this is a fold over already-determined pairs.
// Results are sorted by symbol.
func Aggregate(ledgers []*matching.PositionLedger) ([]SymbolGains, Totals, error) {
	perSymbol := make([]SymbolGains, 0, len(ledgers))
	var totals Totals

	for _, l := range ledgers {
		g := SymbolGains{Symbol: l.Symbol()}

		stockPairs, err := l.StockPairs()
		if err != nil {
			return nil, Totals{}, err
		}
		g.Short, g.Long = bucket(stockPairs)

		optionPairs, err := l.OptionPairs()
		if err != nil {
			return nil, Totals{}, err
		}
		g.OptShort, g.OptLong = bucket(optionPairs)

		totals.Short = totals.Short.Add(g.Short).Add(g.OptShort)
		totals.Long = totals.Long.Add(g.Long).Add(g.OptLong)
		perSymbol = append(perSymbol, g)
	}

	sort.Slice(perSymbol, func(i, j int) bool {
		return perSymbol[i].Symbol < perSymbol[j].Symbol
	})
	return perSymbol, totals, nil
}

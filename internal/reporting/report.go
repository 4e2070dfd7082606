// Package reporting renders realized-gain results for display and for
// export to downstream tax tools.
package reporting

import (
	"time"

	"github.com/shopspring/decimal"

	"capgains/internal/domain"
	"capgains/internal/gains"
	"capgains/internal/matching"
)

// Report is the full realized-gains picture for one run.
type Report struct {
	GeneratedAt time.Time
	Symbols     []SymbolSection
	Totals      gains.Totals
}

// SymbolSection groups one symbol's matched pairs and bucket totals.
type SymbolSection struct {
	Symbol      string
	StockPairs  []PairRow
	OptionPairs []PairRow
	Gains       gains.SymbolGains
}

// PairRow is one matched pair, flattened for rendering.
type PairRow struct {
	Instrument string
	Quantity   int64
	OpenDate   time.Time
	CloseDate  time.Time
	Profit     decimal.Decimal
	ShortTerm  bool
	Synthetic  bool
}

// Generator builds reports from finalized ledgers.
type Generator struct {
	ledgers []*matching.PositionLedger
	now     func() time.Time // injectable clock for deterministic output
}

// NewGenerator creates a report generator over finalized ledgers.
func NewGenerator(ledgers []*matching.PositionLedger) *Generator {
	return &Generator{
		ledgers: ledgers,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate runs the pairing queries and aggregation and assembles the
// report, symbols sorted ascending.
func (g *Generator) Generate() (*Report, error) {
	perSymbol, totals, err := gains.Aggregate(g.ledgers)
	if err != nil {
		return nil, err
	}

	bySymbol := make(map[string]*matching.PositionLedger, len(g.ledgers))
	for _, l := range g.ledgers {
		bySymbol[l.Symbol()] = l
	}

	report := &Report{
		GeneratedAt: g.now(),
		Totals:      totals,
	}
	for _, sg := range perSymbol {
		ledger := bySymbol[sg.Symbol]

		stockPairs, err := ledger.StockPairs()
		if err != nil {
			return nil, err
		}
		optionPairs, err := ledger.OptionPairs()
		if err != nil {
			return nil, err
		}

		report.Symbols = append(report.Symbols, SymbolSection{
			Symbol:      sg.Symbol,
			StockPairs:  pairRows(stockPairs),
			OptionPairs: pairRows(optionPairs),
			Gains:       sg,
		})
	}
	return report, nil
}

func pairRows(pairs []*domain.TradePair) []PairRow {
	rows := make([]PairRow, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, PairRow{
			Instrument: p.Instrument(),
			Quantity:   p.Quantity,
			OpenDate:   p.OpenDate,
			CloseDate:  p.CloseDate,
			Profit:     p.Profit,
			ShortTerm:  p.ShortTerm,
			Synthetic:  p.Synthetic,
		})
	}
	return rows
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRow is the flattened persistence form of a Trade.
// Corresponds to the trades table.
type TradeRow struct {
	TradeID     string // deterministic hash
	Symbol      string
	Kind        string
	Date        time.Time
	Quantity    int64
	Price       decimal.Decimal
	ContractKey string // empty for stock
	Synthetic   bool
	Hint        string
	Source      string // originating file, for audit
}

// PairRow is the flattened persistence form of a TradePair.
// Corresponds to the matched_pairs table.
type PairRow struct {
	PairID      string // deterministic hash
	Symbol      string
	Kind        string
	ContractKey string // empty for stock
	Quantity    int64
	OpenDate    time.Time
	CloseDate   time.Time
	Profit      decimal.Decimal
	ShortTerm   bool
	Synthetic   bool
}

// Row flattens a trade for persistence. The caller supplies the ID and
// source label.
func (t *Trade) Row(tradeID, source string) *TradeRow {
	contractKey := ""
	if t.Kind == SecurityOption && t.Option != nil {
		contractKey = t.Option.Key()
	}
	return &TradeRow{
		TradeID:     tradeID,
		Symbol:      t.Symbol,
		Kind:        string(t.Kind),
		Date:        t.Date,
		Quantity:    t.Quantity,
		Price:       t.Price,
		ContractKey: contractKey,
		Synthetic:   t.Synthetic,
		Hint:        string(t.Hint),
		Source:      source,
	}
}

// Row flattens a matched pair for persistence.
func (p *TradePair) Row(pairID string) *PairRow {
	contractKey := ""
	if p.Kind == SecurityOption && p.Option != nil {
		contractKey = p.Option.Key()
	}
	return &PairRow{
		PairID:      pairID,
		Symbol:      p.Symbol,
		Kind:        string(p.Kind),
		ContractKey: contractKey,
		Quantity:    p.Quantity,
		OpenDate:    p.OpenDate,
		CloseDate:   p.CloseDate,
		Profit:      p.Profit,
		ShortTerm:   p.ShortTerm,
		Synthetic:   p.Synthetic,
	}
}

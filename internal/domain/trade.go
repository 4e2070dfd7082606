// Package domain holds the normalized trade model shared by ingestion,
// matching and reporting.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SecurityKind identifies the instrument class of a trade.
type SecurityKind string

const (
	SecurityStock  SecurityKind = "stock"
	SecurityOption SecurityKind = "option"
)

// DispositionHint carries the direction stated by the source record.
// It is only consulted to resolve option-expiration ambiguity; once
// matching runs, quantity sign is authoritative.
type DispositionHint string

const (
	DispositionBuy       DispositionHint = "buy"
	DispositionSell      DispositionHint = "sell"
	DispositionAmbiguous DispositionHint = "ambiguous"
)

// symbolAliases maps renamed issuers to their current ticker.
// Applied at construction so all downstream grouping sees one symbol.
var symbolAliases = map[string]string{
	"FB": "META",
}

// NormalizeSymbol uppercases a ticker and applies the alias table.
func NormalizeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if alias, ok := symbolAliases[s]; ok {
		return alias
	}
	return s
}

// Trade is a single normalized transaction. Quantity sign encodes
// direction: positive acquires (buy / cover), negative disposes
// (sell / open short). Price is always stored as a magnitude; the
// cashflow sign comes from quantity.
type Trade struct {
	Symbol    string
	Kind      SecurityKind
	Date      time.Time
	Quantity  int64
	Price     decimal.Decimal
	Option    *OptionContract // set iff Kind == SecurityOption
	Synthetic bool            // fabricated to force-close a dangling lot
	Hint      DispositionHint // optional, from the source record
}

// NewStockTrade builds a normalized stock trade. The symbol is
// uppercased and aliased; a negative price is stored as its magnitude.
func NewStockTrade(symbol string, date time.Time, quantity int64, price decimal.Decimal) (*Trade, error) {
	if quantity == 0 {
		return nil, fmt.Errorf("stock trade %s on %s: zero quantity", symbol, date.Format("2006-01-02"))
	}
	return &Trade{
		Symbol:   NormalizeSymbol(symbol),
		Kind:     SecurityStock,
		Date:     date,
		Quantity: quantity,
		Price:    price.Abs(),
	}, nil
}

// NewOptionTrade builds a normalized option trade for a specific contract.
func NewOptionTrade(contract *OptionContract, date time.Time, quantity int64, price decimal.Decimal) (*Trade, error) {
	if contract == nil {
		return nil, fmt.Errorf("option trade on %s: nil contract", date.Format("2006-01-02"))
	}
	if quantity == 0 {
		return nil, fmt.Errorf("option trade %s: zero quantity", contract.Key())
	}
	return &Trade{
		Symbol:   contract.Underlying,
		Kind:     SecurityOption,
		Date:     date,
		Quantity: quantity,
		Price:    price.Abs(),
		Option:   contract,
	}, nil
}

// Amount is the signed cash value of the trade, quantity * price.
func (t *Trade) Amount() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Quantity))
}

// Copy returns an independent copy of the trade.
func (t *Trade) Copy() *Trade {
	c := *t
	return &c
}

// WithQuantity returns a copy carrying a new quantity. All other fields,
// including price, date, contract and the synthetic flag, are preserved.
func (t *Trade) WithQuantity(quantity int64) *Trade {
	c := t.Copy()
	c.Quantity = quantity
	return c
}

// Instrument is the matching-group label: the contract key for options,
// the bare symbol for stock.
func (t *Trade) Instrument() string {
	if t.Kind == SecurityOption && t.Option != nil {
		return t.Option.Key()
	}
	return t.Symbol
}

func (t *Trade) String() string {
	op := ""
	if t.Kind == SecurityOption && t.Option != nil {
		op = t.Option.Key() + " "
	}
	return fmt.Sprintf("%s %s%s %d@%s=%s",
		t.Symbol, op, t.Date.Format("2006-01-02"),
		t.Quantity, t.Price.StringFixed(2), t.Amount().StringFixed(2))
}

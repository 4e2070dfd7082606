package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// longTermDays is the holding-period threshold: a lot closed before
// opening date + 366 days is short-term.
const longTermDays = 366

// TradePair is a matched opening and closing transaction for one
// instrument. Immutable once built.
type TradePair struct {
	Symbol string
	Kind   SecurityKind
	Option *OptionContract

	Opening *Trade
	Closing *Trade

	// Quantity is the matched magnitude, signed as the opening trade.
	Quantity  int64
	OpenDate  time.Time
	CloseDate time.Time
	Profit    decimal.Decimal
	ShortTerm bool
	Synthetic bool
}

// NewTradePair matches two opposite-direction trades of the same
// instrument. The legs are ordered by (date ascending, quantity
// descending); profit is -(a.Amount + b.Amount), which is independent
// of the ordering.
func NewTradePair(a, b *Trade) (*TradePair, error) {
	if a.Quantity*b.Quantity >= 0 {
		return nil, fmt.Errorf("pair %s / %s: quantities must have opposite signs", a, b)
	}
	if a.Symbol != b.Symbol {
		return nil, fmt.Errorf("pair %s / %s: symbol mismatch", a, b)
	}
	if a.Kind != b.Kind {
		return nil, fmt.Errorf("pair %s / %s: security kind mismatch", a, b)
	}

	opening, closing := a, b
	if b.Date.Before(a.Date) || (b.Date.Equal(a.Date) && b.Quantity > a.Quantity) {
		opening, closing = b, a
	}

	return &TradePair{
		Symbol:    opening.Symbol,
		Kind:      opening.Kind,
		Option:    opening.Option,
		Opening:   opening,
		Closing:   closing,
		Quantity:  opening.Quantity,
		OpenDate:  opening.Date,
		CloseDate: closing.Date,
		Profit:    a.Amount().Add(b.Amount()).Neg(),
		ShortTerm: closing.Date.Before(opening.Date.AddDate(0, 0, longTermDays)),
		Synthetic: a.Synthetic || b.Synthetic,
	}, nil
}

// Instrument is the contract key for option pairs, the symbol otherwise.
func (p *TradePair) Instrument() string {
	if p.Kind == SecurityOption && p.Option != nil {
		return p.Option.Key()
	}
	return p.Symbol
}

func (p *TradePair) String() string {
	mark := ""
	if p.Synthetic {
		mark = " !"
	}
	return fmt.Sprintf("%s%s %d %s %s %s",
		p.Instrument(), mark, p.Quantity,
		p.OpenDate.Format("2006-01-02"), p.CloseDate.Format("2006-01-02"),
		p.Profit.StringFixed(2))
}

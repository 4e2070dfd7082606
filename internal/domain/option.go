package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OptionRight is the side of an option contract.
type OptionRight string

const (
	OptionCall OptionRight = "call"
	OptionPut  OptionRight = "put"
)

// OptionContract identifies one option contract. Identity is structural;
// Key returns the canonical form used to group trades per contract.
type OptionContract struct {
	Underlying string
	Right      OptionRight
	Strike     decimal.Decimal
	Expiration time.Time
}

// NewOptionContract builds a contract descriptor. The underlying symbol
// is normalized the same way trade symbols are.
func NewOptionContract(underlying string, right OptionRight, strike decimal.Decimal, expiration time.Time) (*OptionContract, error) {
	if right != OptionCall && right != OptionPut {
		return nil, fmt.Errorf("option right %q must be %q or %q", right, OptionCall, OptionPut)
	}
	return &OptionContract{
		Underlying: NormalizeSymbol(underlying),
		Right:      right,
		Strike:     strike,
		Expiration: expiration,
	}, nil
}

// Key is the canonical contract identity, e.g. "META 2022-01-07 call@347.5".
func (c *OptionContract) Key() string {
	return fmt.Sprintf("%s %s %s@%s",
		c.Underlying, c.Expiration.Format("2006-01-02"), c.Right, c.Strike.String())
}

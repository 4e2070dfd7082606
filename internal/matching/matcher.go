// Package matching implements FIFO lot matching over normalized trades:
// opening transactions are consumed against closing transactions per
// instrument, producing matched pairs with realized profit.
package matching

import (
	"fmt"

	"capgains/internal/domain"
)

// match matches trade a against trade b (opposite directions) and emits
// exactly one pair. When the quantities do not cancel exactly, the side
// whose net keeps a's original sign is split: the returned remainder is
// a copy of that side's trade carrying the leftover quantity, and the
// pair is built from the used portions. A nil remainder means an exact
// match.
func match(a, b *domain.Trade) (*domain.Trade, *domain.TradePair, error) {
	remainQ := a.Quantity + b.Quantity
	if remainQ == 0 {
		pair, err := domain.NewTradePair(a, b)
		return nil, pair, err
	}

	if remainQ*a.Quantity > 0 {
		// a was larger: the remainder comes out of a.
		used := a.WithQuantity(a.Quantity - remainQ)
		pair, err := domain.NewTradePair(used, b)
		if err != nil {
			return nil, nil, err
		}
		return a.WithQuantity(remainQ), pair, nil
	}

	// b was larger: the remainder comes out of b.
	used := b.WithQuantity(b.Quantity - remainQ)
	pair, err := domain.NewTradePair(a, used)
	if err != nil {
		return nil, nil, err
	}
	return b.WithQuantity(remainQ), pair, nil
}

// PairTrades consumes an ordered trade sequence for a single instrument
// and returns every closed matching. Two FIFO queues, one per direction,
// let the same loop handle long (buy then sell) and short (sell then
// buy) sequences uniformly. The caller must pre-sort by date; order
// within a date is input order and determines which prior lot a same-day
// trade matches against.
//
// Every trade must end up fully matched: a non-empty queue after the
// last trade is an UnbalancedPositionError for the named instrument.
func PairTrades(instrument string, trades []*domain.Trade) ([]*domain.TradePair, error) {
	var buyQ, sellQ []*domain.Trade
	var pairs []*domain.TradePair

	for _, t := range trades {
		if t.Quantity == 0 {
			return nil, fmt.Errorf("instrument %s: trade %s has zero quantity", instrument, t)
		}
		cur := t
		if cur.Quantity > 0 {
			// Buy: consume the sell queue head-first until the buy is
			// used up or the queue empties.
			for cur != nil && len(sellQ) > 0 {
				head := sellQ[0]
				sellQ = sellQ[1:]
				remain, pair, err := match(cur, head)
				if err != nil {
					return nil, fmt.Errorf("instrument %s: %w", instrument, err)
				}
				pairs = append(pairs, pair)
				if remain == nil {
					cur = nil
					break
				}
				if remain.Quantity < 0 {
					// The sell lot was larger; its leftover stays the
					// oldest open lot.
					sellQ = append([]*domain.Trade{remain}, sellQ...)
					cur = nil
					break
				}
				cur = remain
			}
			if cur != nil {
				buyQ = append(buyQ, cur)
			}
		} else {
			// Sell: symmetric against the buy queue.
			for cur != nil && len(buyQ) > 0 {
				head := buyQ[0]
				buyQ = buyQ[1:]
				remain, pair, err := match(cur, head)
				if err != nil {
					return nil, fmt.Errorf("instrument %s: %w", instrument, err)
				}
				pairs = append(pairs, pair)
				if remain == nil {
					cur = nil
					break
				}
				if remain.Quantity > 0 {
					buyQ = append([]*domain.Trade{remain}, buyQ...)
					cur = nil
					break
				}
				cur = remain
			}
			if cur != nil {
				sellQ = append(sellQ, cur)
			}
		}
	}

	if len(buyQ) > 0 || len(sellQ) > 0 {
		return nil, &UnbalancedPositionError{Instrument: instrument, Trades: len(trades)}
	}
	return pairs, nil
}

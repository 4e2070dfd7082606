package matching

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"capgains/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func stock(t *testing.T, symbol string, date time.Time, qty int64, price string) *domain.Trade {
	t.Helper()
	tr, err := domain.NewStockTrade(symbol, date, qty, decimal.RequireFromString(price))
	if err != nil {
		t.Fatalf("NewStockTrade: %v", err)
	}
	return tr
}

func TestPairTrades_FIFO(t *testing.T) {
	// One 10-lot closed by two sells: the closes consume the earliest
	// open first, producing two pairs, not one merged pair.
	trades := []*domain.Trade{
		stock(t, "AAPL", day(2023, 1, 1), 10, "100"),
		stock(t, "AAPL", day(2023, 2, 1), -4, "110"),
		stock(t, "AAPL", day(2023, 3, 1), -6, "120"),
	}

	pairs, err := PairTrades("AAPL", trades)
	if err != nil {
		t.Fatalf("PairTrades() error = %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}

	if pairs[0].Quantity != 4 || pairs[1].Quantity != 6 {
		t.Errorf("expected quantities 4 and 6, got %d and %d", pairs[0].Quantity, pairs[1].Quantity)
	}
	for i, p := range pairs {
		if !p.OpenDate.Equal(day(2023, 1, 1)) {
			t.Errorf("pair %d: expected open date 2023-01-01, got %s", i, p.OpenDate)
		}
	}
	if !pairs[0].Profit.Equal(decimal.RequireFromString("40")) {
		t.Errorf("pair 0 profit = %s, want 40", pairs[0].Profit)
	}
	if !pairs[1].Profit.Equal(decimal.RequireFromString("120")) {
		t.Errorf("pair 1 profit = %s, want 120", pairs[1].Profit)
	}
}

func TestPairTrades_ShortPosition(t *testing.T) {
	// Sell first, buy back later: same loop, no special-casing.
	trades := []*domain.Trade{
		stock(t, "AAPL", day(2023, 1, 1), -5, "100"),
		stock(t, "AAPL", day(2023, 6, 1), 5, "80"),
	}

	pairs, err := PairTrades("AAPL", trades)
	if err != nil {
		t.Fatalf("PairTrades() error = %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}

	p := pairs[0]
	if p.Quantity != -5 {
		t.Errorf("quantity = %d, want -5", p.Quantity)
	}
	if !p.OpenDate.Equal(day(2023, 1, 1)) || !p.CloseDate.Equal(day(2023, 6, 1)) {
		t.Errorf("dates = %s / %s, want 2023-01-01 / 2023-06-01", p.OpenDate, p.CloseDate)
	}
	if !p.ShortTerm {
		t.Error("expected short-term classification")
	}
	// -(-5*100 + 5*80) = 100
	if !p.Profit.Equal(decimal.RequireFromString("100")) {
		t.Errorf("profit = %s, want 100", p.Profit)
	}
}

func TestPairTrades_ProfitSign(t *testing.T) {
	// Buy 10 @ 5.00, sell 10 @ 7.00: profit = -((10*5) + (-10*7)) = 20.
	trades := []*domain.Trade{
		stock(t, "AAPL", day(2023, 1, 1), 10, "5.00"),
		stock(t, "AAPL", day(2023, 2, 1), -10, "7.00"),
	}

	pairs, err := PairTrades("AAPL", trades)
	if err != nil {
		t.Fatalf("PairTrades() error = %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if !pairs[0].Profit.Equal(decimal.RequireFromString("20")) {
		t.Errorf("profit = %s, want 20", pairs[0].Profit)
	}
}

func TestPairTrades_Conservation(t *testing.T) {
	// Matched quantities must reconstruct the full quantity history.
	trades := []*domain.Trade{
		stock(t, "AAPL", day(2023, 1, 1), 10, "10"),
		stock(t, "AAPL", day(2023, 1, 5), 7, "11"),
		stock(t, "AAPL", day(2023, 2, 1), -3, "12"),
		stock(t, "AAPL", day(2023, 3, 1), -12, "13"),
		stock(t, "AAPL", day(2023, 4, 1), -2, "14"),
	}

	pairs, err := PairTrades("AAPL", trades)
	if err != nil {
		t.Fatalf("PairTrades() error = %v", err)
	}

	var matched int64
	for _, p := range pairs {
		if p.Quantity <= 0 {
			t.Errorf("long sequence produced non-positive matched quantity %d", p.Quantity)
		}
		matched += p.Quantity
	}
	if matched != 17 {
		t.Errorf("total matched quantity = %d, want 17", matched)
	}
}

func TestPairTrades_RemainderBecomesQueueHead(t *testing.T) {
	// A sell larger than the oldest lot leaves a remainder that must
	// stay ahead of younger open lots.
	trades := []*domain.Trade{
		stock(t, "AAPL", day(2023, 1, 1), -10, "10"),
		stock(t, "AAPL", day(2023, 1, 2), -10, "20"),
		stock(t, "AAPL", day(2023, 2, 1), 4, "10"),
		stock(t, "AAPL", day(2023, 3, 1), 16, "10"),
	}

	pairs, err := PairTrades("AAPL", trades)
	if err != nil {
		t.Fatalf("PairTrades() error = %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}

	// The second buy must first finish the 1/1 lot remainder (6), then
	// the 1/2 lot (10).
	if !pairs[1].OpenDate.Equal(day(2023, 1, 1)) || pairs[1].Quantity != -6 {
		t.Errorf("pair 1 = open %s qty %d, want 2023-01-01 qty -6", pairs[1].OpenDate, pairs[1].Quantity)
	}
	if !pairs[2].OpenDate.Equal(day(2023, 1, 2)) || pairs[2].Quantity != -10 {
		t.Errorf("pair 2 = open %s qty %d, want 2023-01-02 qty -10", pairs[2].OpenDate, pairs[2].Quantity)
	}
}

func TestPairTrades_Unbalanced(t *testing.T) {
	trades := []*domain.Trade{
		stock(t, "AAPL", day(2023, 1, 1), 10, "100"),
	}

	_, err := PairTrades("AAPL", trades)
	var unbalanced *UnbalancedPositionError
	if !errors.As(err, &unbalanced) {
		t.Fatalf("expected UnbalancedPositionError, got %v", err)
	}
	if unbalanced.Instrument != "AAPL" || unbalanced.Trades != 1 {
		t.Errorf("error = %+v, want instrument AAPL with 1 trade", unbalanced)
	}
}

func TestPairTrades_Empty(t *testing.T) {
	pairs, err := PairTrades("AAPL", nil)
	if err != nil {
		t.Fatalf("PairTrades() error = %v", err)
	}
	if len(pairs) != 0 {
		t.Errorf("expected no pairs, got %d", len(pairs))
	}
}

// The remainder split rule: the side whose net keeps the first trade's
// original sign is the one split. All four sign combinations.
func TestMatch_SplitRule(t *testing.T) {
	tests := []struct {
		name       string
		selfQty    int64
		otherQty   int64
		remainQty  int64
		splitSelf  bool
		exactMatch bool
	}{
		{name: "buy larger than sell", selfQty: 10, otherQty: -4, remainQty: 6, splitSelf: true},
		{name: "sell larger than buy", selfQty: 4, otherQty: -10, remainQty: -6, splitSelf: false},
		{name: "short sell larger than cover", selfQty: -10, otherQty: 4, remainQty: -6, splitSelf: true},
		{name: "cover larger than short sell", selfQty: -4, otherQty: 10, remainQty: 6, splitSelf: false},
		{name: "exact match", selfQty: 10, otherQty: -10, exactMatch: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			self := stock(t, "AAPL", day(2023, 1, 1), tt.selfQty, "10")
			other := stock(t, "AAPL", day(2023, 2, 1), tt.otherQty, "12")

			remain, pair, err := match(self, other)
			if err != nil {
				t.Fatalf("match() error = %v", err)
			}
			if pair == nil {
				t.Fatal("match() produced no pair")
			}

			if tt.exactMatch {
				if remain != nil {
					t.Fatalf("expected no remainder, got %+v", remain)
				}
				return
			}

			if remain == nil {
				t.Fatal("expected a remainder")
			}
			if remain.Quantity != tt.remainQty {
				t.Errorf("remainder quantity = %d, want %d", remain.Quantity, tt.remainQty)
			}
			wantDate := other.Date
			if tt.splitSelf {
				wantDate = self.Date
			}
			if !remain.Date.Equal(wantDate) {
				t.Errorf("remainder carries date %s, want the split side's date %s", remain.Date, wantDate)
			}
			// Pair legs must cancel exactly.
			if pair.Opening.Quantity+pair.Closing.Quantity != 0 {
				t.Errorf("pair legs %d and %d do not cancel", pair.Opening.Quantity, pair.Closing.Quantity)
			}
		})
	}
}

func TestMatch_CopyPreservesFields(t *testing.T) {
	self := stock(t, "AAPL", day(2023, 1, 1), 10, "10")
	self.Synthetic = true
	other := stock(t, "AAPL", day(2023, 2, 1), -4, "12")

	remain, pair, err := match(self, other)
	if err != nil {
		t.Fatalf("match() error = %v", err)
	}
	if remain == nil {
		t.Fatal("expected a remainder")
	}
	if !remain.Price.Equal(self.Price) || !remain.Synthetic {
		t.Errorf("remainder did not preserve price/synthetic: %+v", remain)
	}
	if !pair.Synthetic {
		t.Error("pair with a synthetic leg must be synthetic")
	}
}

package idhash

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"capgains/internal/domain"
)

func testTrade(t *testing.T, qty int64) *domain.Trade {
	t.Helper()
	tr, err := domain.NewStockTrade("AAPL",
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), qty, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("NewStockTrade: %v", err)
	}
	return tr
}

func TestTradeID(t *testing.T) {
	tr := testTrade(t, 10)

	id := TradeID(tr, 0)
	if len(id) != 64 {
		t.Errorf("TradeID length = %d, want 64", len(id))
	}
	if id != TradeID(tr, 0) {
		t.Error("TradeID must be deterministic")
	}
	if id == TradeID(tr, 1) {
		t.Error("different seq must produce a different id")
	}
	if id == TradeID(testTrade(t, 5), 0) {
		t.Error("different quantity must produce a different id")
	}
}

func TestPairID(t *testing.T) {
	open := testTrade(t, 10)
	closing := testTrade(t, -10)
	closing.Date = closing.Date.AddDate(0, 2, 0)

	pair, err := domain.NewTradePair(open, closing)
	if err != nil {
		t.Fatalf("NewTradePair: %v", err)
	}

	id := PairID(pair, 0)
	if len(id) != 64 {
		t.Errorf("PairID length = %d, want 64", len(id))
	}
	if id != PairID(pair, 0) {
		t.Error("PairID must be deterministic")
	}
	if id == PairID(pair, 1) {
		t.Error("different seq must produce a different id")
	}
}

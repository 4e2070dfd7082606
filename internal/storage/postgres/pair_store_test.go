package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capgains/internal/domain"
	"capgains/internal/storage"
)

func createTestPairRow(pairID, symbol string, openDate, closeDate time.Time, profit string) *domain.PairRow {
	return &domain.PairRow{
		PairID:    pairID,
		Symbol:    symbol,
		Kind:      "stock",
		Quantity:  40,
		OpenDate:  openDate,
		CloseDate: closeDate,
		Profit:    decimal.RequireFromString(profit),
		ShortTerm: true,
	}
}

func TestPairStore_InsertAndGetBySymbol(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPairStore(pool)

	pair := createTestPairRow("pair-001", "META", testDay(2022, 1, 3), testDay(2022, 2, 1), "-415.20")

	err := store.Insert(ctx, pair)
	require.NoError(t, err)

	retrieved, err := store.GetBySymbol(ctx, "META")
	require.NoError(t, err)
	require.Len(t, retrieved, 1)

	got := retrieved[0]
	assert.Equal(t, pair.PairID, got.PairID)
	assert.Equal(t, pair.Symbol, got.Symbol)
	assert.Equal(t, pair.Quantity, got.Quantity)
	assert.True(t, pair.OpenDate.Equal(got.OpenDate))
	assert.True(t, pair.CloseDate.Equal(got.CloseDate))
	assert.True(t, pair.Profit.Equal(got.Profit), "profit mismatch: %s vs %s", pair.Profit, got.Profit)
	assert.True(t, got.ShortTerm)
}

func TestPairStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPairStore(pool)

	pair := createTestPairRow("pair-001", "META", testDay(2022, 1, 3), testDay(2022, 2, 1), "100")

	require.NoError(t, store.Insert(ctx, pair))

	err := store.Insert(ctx, pair)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestPairStore_InsertBulkOrdering(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPairStore(pool)

	pairs := []*domain.PairRow{
		createTestPairRow("pair-002", "META", testDay(2022, 3, 1), testDay(2022, 9, 1), "250"),
		createTestPairRow("pair-001", "META", testDay(2022, 1, 3), testDay(2022, 6, 1), "-415.20"),
		createTestPairRow("pair-003", "AAPL", testDay(2022, 2, 1), testDay(2022, 5, 1), "80"),
	}

	require.NoError(t, store.InsertBulk(ctx, pairs))

	retrieved, err := store.GetBySymbol(ctx, "META")
	require.NoError(t, err)
	require.Len(t, retrieved, 2)

	// Ordered by close_date ASC
	assert.Equal(t, "pair-001", retrieved[0].PairID)
	assert.Equal(t, "pair-002", retrieved[1].PairID)
}

func TestPairStore_InsertBulkRollsBackOnDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPairStore(pool)

	first := createTestPairRow("pair-001", "META", testDay(2022, 1, 3), testDay(2022, 6, 1), "100")
	require.NoError(t, store.Insert(ctx, first))

	pairs := []*domain.PairRow{
		createTestPairRow("pair-002", "META", testDay(2022, 3, 1), testDay(2022, 9, 1), "250"),
		createTestPairRow("pair-001", "META", testDay(2022, 1, 3), testDay(2022, 6, 1), "100"), // duplicate
	}

	err := store.InsertBulk(ctx, pairs)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	retrieved, err := store.GetBySymbol(ctx, "META")
	require.NoError(t, err)
	assert.Len(t, retrieved, 1)
}

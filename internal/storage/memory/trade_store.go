// Package memory provides in-memory store implementations, used by
// tests and runs that do not persist.
package memory

import (
	"context"
	"sort"
	"sync"

	"capgains/internal/domain"
	"capgains/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TradeRow // keyed by trade_id
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{data: make(map[string]*domain.TradeRow)}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// Insert adds a trade row. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeStore) Insert(_ context.Context, t *domain.TradeRow) error {
	if t == nil || t.TradeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.TradeID]; exists {
		return storage.ErrDuplicateKey
	}

	row := *t
	s.data[t.TradeID] = &row
	return nil
}

// InsertBulk adds multiple rows atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(_ context.Context, trades []*domain.TradeRow) error {
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(trades))
	for _, t := range trades {
		if t == nil || t.TradeID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[t.TradeID] = struct{}{}
	}

	for _, t := range trades {
		row := *t
		s.data[t.TradeID] = &row
	}
	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(_ context.Context, tradeID string) (*domain.TradeRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.data[tradeID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	row := *t
	return &row, nil
}

// GetBySymbol retrieves all trades for a symbol, ordered by date ASC,
// trade_id ASC for ties.
func (s *TradeStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.TradeRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []*domain.TradeRow
	for _, t := range s.data {
		if t.Symbol == symbol {
			row := *t
			rows = append(rows, &row)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].TradeID < rows[j].TradeID
	})
	return rows, nil
}

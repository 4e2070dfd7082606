package memory

import (
	"context"
	"sort"
	"sync"

	"capgains/internal/domain"
	"capgains/internal/storage"
)

// PairStore is an in-memory implementation of storage.PairStore.
type PairStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PairRow // keyed by pair_id
}

// NewPairStore creates a new in-memory pair store.
func NewPairStore() *PairStore {
	return &PairStore{data: make(map[string]*domain.PairRow)}
}

var _ storage.PairStore = (*PairStore)(nil)

// Insert adds a matched pair row. Returns ErrDuplicateKey if pair_id exists.
func (s *PairStore) Insert(_ context.Context, p *domain.PairRow) error {
	if p == nil || p.PairID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.PairID]; exists {
		return storage.ErrDuplicateKey
	}

	row := *p
	s.data[p.PairID] = &row
	return nil
}

// InsertBulk adds multiple rows atomically. Fails entire batch on any duplicate.
func (s *PairStore) InsertBulk(_ context.Context, pairs []*domain.PairRow) error {
	if len(pairs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		if p == nil || p.PairID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[p.PairID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[p.PairID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[p.PairID] = struct{}{}
	}

	for _, p := range pairs {
		row := *p
		s.data[p.PairID] = &row
	}
	return nil
}

// GetBySymbol retrieves all pairs for a symbol, ordered by close date ASC,
// pair_id ASC for ties.
func (s *PairStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.PairRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []*domain.PairRow
	for _, p := range s.data {
		if p.Symbol == symbol {
			row := *p
			rows = append(rows, &row)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CloseDate.Equal(rows[j].CloseDate) {
			return rows[i].CloseDate.Before(rows[j].CloseDate)
		}
		return rows[i].PairID < rows[j].PairID
	})
	return rows, nil
}

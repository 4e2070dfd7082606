package postgres

import (
	"context"
	"fmt"

	"capgains/internal/domain"
	"capgains/internal/storage"
)

// PairStore implements storage.PairStore using PostgreSQL.
type PairStore struct {
	pool *Pool
}

// NewPairStore creates a new PairStore.
func NewPairStore(pool *Pool) *PairStore {
	return &PairStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PairStore = (*PairStore)(nil)

// Insert adds a new matched pair. Returns ErrDuplicateKey if pair_id exists.
func (s *PairStore) Insert(ctx context.Context, p *domain.PairRow) error {
	if p == nil || p.PairID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO matched_pairs (
			pair_id, symbol, kind, contract_key, quantity,
			open_date, close_date, profit, short_term, synthetic
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10
		)
	`

	_, err := s.pool.Exec(ctx, query,
		p.PairID, p.Symbol, p.Kind, p.ContractKey, p.Quantity,
		p.OpenDate, p.CloseDate, p.Profit, p.ShortTerm, p.Synthetic,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert matched pair: %w", err)
	}
	return nil
}

// InsertBulk adds multiple pairs atomically. Fails entire batch on any duplicate.
func (s *PairStore) InsertBulk(ctx context.Context, pairs []*domain.PairRow) error {
	if len(pairs) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO matched_pairs (
			pair_id, symbol, kind, contract_key, quantity,
			open_date, close_date, profit, short_term, synthetic
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10
		)
	`

	for _, p := range pairs {
		if p == nil || p.PairID == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			p.PairID, p.Symbol, p.Kind, p.ContractKey, p.Quantity,
			p.OpenDate, p.CloseDate, p.Profit, p.ShortTerm, p.Synthetic,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert matched pair in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetBySymbol retrieves all pairs for a symbol, ordered by close date.
func (s *PairStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.PairRow, error) {
	query := `
		SELECT
			pair_id, symbol, kind, contract_key, quantity,
			open_date, close_date, profit, short_term, synthetic
		FROM matched_pairs
		WHERE symbol = $1
		ORDER BY close_date ASC, pair_id ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("get matched pairs by symbol: %w", err)
	}
	defer rows.Close()

	var pairs []*domain.PairRow

	for rows.Next() {
		var p domain.PairRow

		err := rows.Scan(
			&p.PairID, &p.Symbol, &p.Kind, &p.ContractKey, &p.Quantity,
			&p.OpenDate, &p.CloseDate, &p.Profit, &p.ShortTerm, &p.Synthetic,
		)
		if err != nil {
			return nil, fmt.Errorf("scan matched pair row: %w", err)
		}

		pairs = append(pairs, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matched pair rows: %w", err)
	}

	return pairs, nil
}

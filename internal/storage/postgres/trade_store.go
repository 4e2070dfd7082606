// Package postgres provides PostgreSQL-backed store implementations.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"capgains/internal/domain"
	"capgains/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.TradeRow) error {
	if t == nil || t.TradeID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO trades (
			trade_id, symbol, kind, trade_date, quantity, price,
			contract_key, synthetic, hint, source
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10
		)
	`

	_, err := s.pool.Exec(ctx, query,
		t.TradeID, t.Symbol, t.Kind, t.Date, t.Quantity, t.Price,
		t.ContractKey, t.Synthetic, t.Hint, t.Source,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.TradeRow) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO trades (
			trade_id, symbol, kind, trade_date, quantity, price,
			contract_key, synthetic, hint, source
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10
		)
	`

	for _, t := range trades {
		if t == nil || t.TradeID == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			t.TradeID, t.Symbol, t.Kind, t.Date, t.Quantity, t.Price,
			t.ContractKey, t.Synthetic, t.Hint, t.Source,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(ctx context.Context, tradeID string) (*domain.TradeRow, error) {
	query := `
		SELECT
			trade_id, symbol, kind, trade_date, quantity, price,
			contract_key, synthetic, hint, source
		FROM trades
		WHERE trade_id = $1
	`

	row := s.pool.QueryRow(ctx, query, tradeID)
	t, err := scanTradeRow(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade by id: %w", err)
	}
	return t, nil
}

// GetBySymbol retrieves all trades for a symbol, oldest first.
func (s *TradeStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.TradeRow, error) {
	query := `
		SELECT
			trade_id, symbol, kind, trade_date, quantity, price,
			contract_key, synthetic, hint, source
		FROM trades
		WHERE symbol = $1
		ORDER BY trade_date ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("get trades by symbol: %w", err)
	}
	defer rows.Close()

	return scanTradeRows(rows)
}

// scanTradeRow scans a single row into a TradeRow.
func scanTradeRow(row pgx.Row) (*domain.TradeRow, error) {
	var t domain.TradeRow

	err := row.Scan(
		&t.TradeID, &t.Symbol, &t.Kind, &t.Date, &t.Quantity, &t.Price,
		&t.ContractKey, &t.Synthetic, &t.Hint, &t.Source,
	)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// scanTradeRows scans multiple rows into a slice of TradeRow.
func scanTradeRows(rows pgx.Rows) ([]*domain.TradeRow, error) {
	var trades []*domain.TradeRow

	for rows.Next() {
		var t domain.TradeRow

		err := rows.Scan(
			&t.TradeID, &t.Symbol, &t.Kind, &t.Date, &t.Quantity, &t.Price,
			&t.ContractKey, &t.Synthetic, &t.Hint, &t.Source,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}

		trades = append(trades, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}

	return trades, nil
}

// Package storage defines the persistence interfaces for normalized
// trades and matched pairs, with in-memory and PostgreSQL
// implementations in subpackages. Stores are append-only: a run's
// inputs and its realized-gain audit trail are written once and
// re-queried, never updated.
package storage

import (
	"context"

	"capgains/internal/domain"
)

// TradeStore provides access to normalized trade storage.
type TradeStore interface {
	// Insert adds a trade row. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.TradeRow) error

	// InsertBulk adds multiple rows atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.TradeRow) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.TradeRow, error)

	// GetBySymbol retrieves all trades for a symbol, ordered by date ASC,
	// trade_id ASC for ties.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.TradeRow, error)
}

// PairStore provides access to matched-pair storage.
type PairStore interface {
	// Insert adds a pair row. Returns ErrDuplicateKey if pair_id exists.
	Insert(ctx context.Context, p *domain.PairRow) error

	// InsertBulk adds multiple rows atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, pairs []*domain.PairRow) error

	// GetBySymbol retrieves all pairs for a symbol, ordered by close date ASC,
	// pair_id ASC for ties.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.PairRow, error)
}

// Package ingestion normalizes broker CSV exports into domain trades and
// groups them into per-symbol position ledgers.
package ingestion

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"capgains/internal/domain"
)

// RowParser converts one CSV record (lowercased header -> value) into a
// normalized trade. Each broker format has its own implementation.
type RowParser interface {
	Parse(record map[string]string) (*domain.Trade, error)

	// AutoCloseOptions reports whether ledgers built from this source
	// should force-close dangling option positions. Sources that emit
	// explicit expiration rows do not need the repair.
	AutoCloseOptions() bool
}

// ParserFor returns the parser for a broker format name.
func ParserFor(format string) (RowParser, error) {
	switch strings.ToLower(format) {
	case "etrade":
		return &EtradeParser{}, nil
	case "chase":
		return &ChaseParser{}, nil
	default:
		return nil, fmt.Errorf("unknown csv format %q", format)
	}
}

func field(record map[string]string, key string) string {
	return strings.TrimSpace(record[strings.ToLower(key)])
}

func parseQuantity(s string) (int64, error) {
	q, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse quantity %q: %w", s, err)
	}
	return q, nil
}

// unitPrice derives per-unit price from a signed total amount. The sign
// washes out at trade construction; quantity carries direction.
func unitPrice(amount decimal.Decimal, quantity int64) (decimal.Decimal, error) {
	if quantity == 0 {
		return decimal.Zero, fmt.Errorf("cannot derive price for zero quantity")
	}
	return amount.Div(decimal.NewFromInt(quantity)), nil
}

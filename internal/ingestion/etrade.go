package ingestion

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"capgains/internal/domain"
)

// EtradeParser maps E*TRADE transaction exports. Option rows carry the
// contract in the Security column, e.g. `FB JAN 07 '22 $347.50 CALL`.
// Expiration rows do not say whether the expired position was long or
// short; they become ambiguous-direction trades and are resolved at
// ledger finalization.
type EtradeParser struct{}

// AutoCloseOptions is false: E*TRADE exports include expiration and
// assignment rows, so a contract that does not balance is a data defect.
func (p *EtradeParser) AutoCloseOptions() bool { return false }

const (
	etradeTradeDateLayout  = "1/2/2006"
	etradeOptionDateLayout = "Jan 02 '06"
)

func (p *EtradeParser) Parse(record map[string]string) (*domain.Trade, error) {
	security := field(record, "Security")
	if security == "" {
		return nil, fmt.Errorf("etrade row has no security")
	}

	date, err := time.Parse(etradeTradeDateLayout, field(record, "Trade Date"))
	if err != nil {
		return nil, fmt.Errorf("etrade trade date: %w", err)
	}

	orderType := strings.ToLower(field(record, "Order Type"))
	hint := domain.DispositionHint("")
	switch orderType {
	case "option expire":
		// Direction unknowable from the row alone.
		hint = domain.DispositionAmbiguous
	case "option assignment":
		// Assignment is treated as a zero-ish cost basis acquisition.
		hint = domain.DispositionBuy
	default:
		switch word, _, _ := strings.Cut(orderType, " "); word {
		case "buy":
			hint = domain.DispositionBuy
		case "sell":
			hint = domain.DispositionSell
		default:
			return nil, fmt.Errorf("etrade row has unknown order type %q", orderType)
		}
	}

	quantity, err := parseQuantity(field(record, "Quantity"))
	if err != nil {
		return nil, err
	}
	// Sells dispose; ambiguous rows start negated and may be flipped
	// back during ledger finalization.
	if hint == domain.DispositionSell || hint == domain.DispositionAmbiguous {
		quantity = -quantity
	}
	if quantity == 0 {
		return nil, fmt.Errorf("etrade row for %s has zero quantity", security)
	}

	amount, err := decimal.NewFromString(field(record, "Net Amount"))
	if err != nil {
		return nil, fmt.Errorf("etrade net amount: %w", err)
	}
	price, err := unitPrice(amount, quantity)
	if err != nil {
		return nil, err
	}

	var trade *domain.Trade
	if strings.Contains(security, "CALL") || strings.Contains(security, "PUT") {
		contract, err := parseEtradeContract(security)
		if err != nil {
			return nil, err
		}
		trade, err = domain.NewOptionTrade(contract, date, quantity, price)
		if err != nil {
			return nil, err
		}
	} else {
		trade, err = domain.NewStockTrade(security, date, quantity, price)
		if err != nil {
			return nil, err
		}
	}
	trade.Hint = hint
	return trade, nil
}

// parseEtradeContract parses `FB JAN 07 '22 $347.50 CALL`.
func parseEtradeContract(security string) (*domain.OptionContract, error) {
	tokens := strings.Fields(security)
	if len(tokens) < 6 {
		return nil, fmt.Errorf("etrade option security %q: expected 6 tokens", security)
	}

	month := tokens[1]
	if len(month) > 1 {
		month = month[:1] + strings.ToLower(month[1:])
	}
	expiry, err := time.Parse(etradeOptionDateLayout, month+" "+tokens[2]+" "+tokens[3])
	if err != nil {
		return nil, fmt.Errorf("etrade option expiration in %q: %w", security, err)
	}

	strike, err := decimal.NewFromString(strings.TrimPrefix(tokens[4], "$"))
	if err != nil {
		return nil, fmt.Errorf("etrade option strike in %q: %w", security, err)
	}

	right := domain.OptionRight(strings.ToLower(tokens[5]))
	return domain.NewOptionContract(tokens[0], right, strike, expiry)
}

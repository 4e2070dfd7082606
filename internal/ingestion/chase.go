package ingestion

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"capgains/internal/domain"
)

// ChaseParser maps Chase (and hand-crafted supplemental) exports with
// columns Security Type, Ticker, Description, Trade Date, Quantity,
// Amount Local. Quantity is already signed. Option rows have no ticker;
// the contract comes from the description, e.g.
// `CALL FB 01/21/22 330 META PLATFORMS INC CL`.
type ChaseParser struct{}

// AutoCloseOptions is true: Chase exports omit expiration rows, so
// contracts routinely never balance and get the zero-price repair.
func (p *ChaseParser) AutoCloseOptions() bool { return true }

const (
	chaseTradeDateLayout  = "1/2/2006"
	chaseOptionDateLayout = "01/02/06"
)

func (p *ChaseParser) Parse(record map[string]string) (*domain.Trade, error) {
	kind := domain.SecurityKind(strings.ToLower(field(record, "Security Type")))

	date, err := time.Parse(chaseTradeDateLayout, field(record, "Trade Date"))
	if err != nil {
		return nil, fmt.Errorf("chase trade date: %w", err)
	}

	quantity, err := parseQuantity(field(record, "Quantity"))
	if err != nil {
		return nil, err
	}
	if quantity == 0 {
		return nil, fmt.Errorf("chase row for %q has zero quantity", field(record, "Description"))
	}

	amount, err := decimal.NewFromString(field(record, "Amount Local"))
	if err != nil {
		return nil, fmt.Errorf("chase amount: %w", err)
	}
	price, err := unitPrice(amount, quantity)
	if err != nil {
		return nil, err
	}

	switch kind {
	case domain.SecurityStock:
		return domain.NewStockTrade(field(record, "Ticker"), date, quantity, price)
	case domain.SecurityOption:
		contract, err := parseChaseContract(field(record, "Description"))
		if err != nil {
			return nil, err
		}
		return domain.NewOptionTrade(contract, date, quantity, price)
	default:
		return nil, fmt.Errorf("chase row has unknown security type %q", field(record, "Security Type"))
	}
}

// parseChaseContract parses `CALL FB 01/21/22 330 ...`.
func parseChaseContract(description string) (*domain.OptionContract, error) {
	tokens := strings.Fields(description)
	if len(tokens) < 4 {
		return nil, fmt.Errorf("chase option description %q: expected at least 4 tokens", description)
	}

	right := domain.OptionRight(strings.ToLower(tokens[0]))

	expiry, err := time.Parse(chaseOptionDateLayout, tokens[2])
	if err != nil {
		return nil, fmt.Errorf("chase option expiration in %q: %w", description, err)
	}

	strike, err := decimal.NewFromString(tokens[3])
	if err != nil {
		return nil, fmt.Errorf("chase option strike in %q: %w", description, err)
	}

	return domain.NewOptionContract(tokens[1], right, strike, expiry)
}

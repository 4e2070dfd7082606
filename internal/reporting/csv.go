package reporting

import (
	"encoding/csv"
	"fmt"
	"io"

	"capgains/internal/matching"
)

// exportHeader is the column layout expected by the capital-gains
// import tool: date,symbol,name,shares,price,fee.
var exportHeader = []string{"date", "symbol", "name", "shares", "price", "fee"}

// WriteExportCSV writes every ledger's normalized stock trades in the
// export layout, one row per trade, ledgers in the given order.
func WriteExportCSV(w io.Writer, ledgers []*matching.PositionLedger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}

	for _, ledger := range ledgers {
		for _, t := range ledger.StockTrades() {
			row := []string{
				t.Date.Format("2006-01-02"),
				t.Symbol,
				"",
				fmt.Sprintf("%d", t.Quantity),
				t.Price.String(),
				"0",
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write export row for %s: %w", t.Symbol, err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

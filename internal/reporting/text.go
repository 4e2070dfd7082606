package reporting

import (
	"fmt"
	"strings"
)

// RenderText renders the report as plain text: per-symbol pair listings
// followed by per-symbol and grand totals. Synthetic pairs are marked
// with "!" so approximated closes stand out in an audit.
func RenderText(r *Report) string {
	var sb strings.Builder

	for _, sec := range r.Symbols {
		if len(sec.StockPairs) > 0 {
			fmt.Fprintf(&sb, "--- %s ---\n", sec.Symbol)
			writePairRows(&sb, sec.StockPairs)
		}
		if len(sec.OptionPairs) > 0 {
			fmt.Fprintf(&sb, "--- %s options ---\n", sec.Symbol)
			writePairRows(&sb, sec.OptionPairs)
		}
	}

	for _, sec := range r.Symbols {
		fmt.Fprintf(&sb, "%s short %s long %s\n",
			sec.Symbol, sec.Gains.Short.StringFixed(2), sec.Gains.Long.StringFixed(2))
		fmt.Fprintf(&sb, "%s options short %s long %s\n",
			sec.Symbol, sec.Gains.OptShort.StringFixed(2), sec.Gains.OptLong.StringFixed(2))
	}

	fmt.Fprintf(&sb, "Grand total --- short %s long %s\n",
		r.Totals.Short.StringFixed(2), r.Totals.Long.StringFixed(2))
	return sb.String()
}

func writePairRows(sb *strings.Builder, rows []PairRow) {
	for _, row := range rows {
		mark := ""
		if row.Synthetic {
			mark = " !"
		}
		fmt.Fprintf(sb, "%-30s %4d %s %s %s\n",
			row.Instrument+mark, row.Quantity,
			row.OpenDate.Format("2006-01-02"), row.CloseDate.Format("2006-01-02"),
			row.Profit.StringFixed(2))
	}
}

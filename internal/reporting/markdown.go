package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as Markdown.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Realized Capital Gains\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	for _, sec := range r.Symbols {
		sb.WriteString(fmt.Sprintf("## %s\n\n", sec.Symbol))

		if len(sec.StockPairs) > 0 {
			sb.WriteString("### Stock\n\n")
			writeMarkdownPairs(&sb, sec.StockPairs)
		}
		if len(sec.OptionPairs) > 0 {
			sb.WriteString("### Options\n\n")
			writeMarkdownPairs(&sb, sec.OptionPairs)
		}

		sb.WriteString("| Bucket | Gain |\n")
		sb.WriteString("|--------|------|\n")
		sb.WriteString(fmt.Sprintf("| Short-term | %s |\n", sec.Gains.Short.StringFixed(2)))
		sb.WriteString(fmt.Sprintf("| Long-term | %s |\n", sec.Gains.Long.StringFixed(2)))
		sb.WriteString(fmt.Sprintf("| Options short-term | %s |\n", sec.Gains.OptShort.StringFixed(2)))
		sb.WriteString(fmt.Sprintf("| Options long-term | %s |\n\n", sec.Gains.OptLong.StringFixed(2)))
	}

	sb.WriteString("## Grand Total\n\n")
	sb.WriteString("| Bucket | Gain |\n")
	sb.WriteString("|--------|------|\n")
	sb.WriteString(fmt.Sprintf("| Short-term | %s |\n", r.Totals.Short.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("| Long-term | %s |\n", r.Totals.Long.StringFixed(2)))

	return sb.String()
}

func writeMarkdownPairs(sb *strings.Builder, rows []PairRow) {
	sb.WriteString("| Instrument | Qty | Opened | Closed | Profit | Term | Synthetic |\n")
	sb.WriteString("|------------|-----|--------|--------|--------|------|-----------|\n")
	for _, row := range rows {
		term := "long"
		if row.ShortTerm {
			term = "short"
		}
		synthetic := ""
		if row.Synthetic {
			synthetic = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s |\n",
			row.Instrument, row.Quantity,
			row.OpenDate.Format("2006-01-02"), row.CloseDate.Format("2006-01-02"),
			row.Profit.StringFixed(2), term, synthetic))
	}
	sb.WriteString("\n")
}

package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"capgains/internal/domain"
	"capgains/internal/matching"
	"capgains/internal/observability"
)

// Loader reads broker CSV files, normalizes every row through a
// RowParser, and groups trades into per-symbol position ledgers.
type Loader struct {
	parser       RowParser
	closeOptions bool
	filter       map[string]bool // nil means no filtering
}

// NewLoader creates a loader. symbols, when non-empty, restricts
// processing to those tickers (normalized). closeOptions sets the
// ledgers' auto-close policy; callers usually pass
// parser.AutoCloseOptions().
func NewLoader(parser RowParser, closeOptions bool, symbols []string) *Loader {
	var filter map[string]bool
	if len(symbols) > 0 {
		filter = make(map[string]bool, len(symbols))
		for _, s := range symbols {
			if s = strings.TrimSpace(s); s != "" {
				filter[domain.NormalizeSymbol(s)] = true
			}
		}
	}
	return &Loader{parser: parser, closeOptions: closeOptions, filter: filter}
}

// Result is the outcome of loading a batch of files: finalized ledgers
// keyed by symbol, the repairs applied during finalization, and row
// counts for observability.
type Result struct {
	Ledgers     map[string]*matching.PositionLedger
	Diagnostics []matching.Diagnostic
	Rows        int
	Trades      int
}

// LoadFiles reads every file, groups trades into ledgers, and finalizes
// each ledger. A malformed row or an unbalanced ledger aborts the run:
// realized-gain figures from partial data would be silently wrong.
func (ld *Loader) LoadFiles(paths []string) (*Result, error) {
	res := &Result{Ledgers: make(map[string]*matching.PositionLedger)}

	for _, path := range paths {
		if err := ld.loadFile(path, res); err != nil {
			return nil, err
		}
	}

	for _, symbol := range sortedKeys(res.Ledgers) {
		diags, err := res.Ledgers[symbol].Finish()
		if err != nil {
			return nil, fmt.Errorf("finalize %s: %w", symbol, err)
		}
		res.Diagnostics = append(res.Diagnostics, diags...)
	}

	for _, d := range res.Diagnostics {
		switch d.Kind {
		case matching.DiagConfusionFlip:
			observability.RecordConfusionRepair()
		case matching.DiagSyntheticClose:
			observability.RecordSyntheticClose()
		}
	}
	return res, nil
}

func (ld *Loader) loadFile(path string, res *Result) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	observability.RecordFileLoaded()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		res.Rows++

		record := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(row) {
				record[key] = row[i]
			}
		}

		trade, err := ld.parser.Parse(record)
		if err != nil {
			observability.RecordParseError("malformed_row")
			return fmt.Errorf("%s line %d: %w", path, line, err)
		}
		observability.RecordTradeParsed()
		if ld.filter != nil && !ld.filter[trade.Symbol] {
			continue
		}

		ledger, ok := res.Ledgers[trade.Symbol]
		if !ok {
			ledger = matching.NewPositionLedger(trade.Symbol, ld.closeOptions)
			res.Ledgers[trade.Symbol] = ledger
		}
		if err := ledger.Add(trade); err != nil {
			return fmt.Errorf("%s line %d: %w", path, line, err)
		}
		res.Trades++
	}
	return nil
}

// SortedLedgers returns the result's ledgers ordered by symbol.
func (r *Result) SortedLedgers() []*matching.PositionLedger {
	ledgers := make([]*matching.PositionLedger, 0, len(r.Ledgers))
	for _, symbol := range sortedKeys(r.Ledgers) {
		ledgers = append(ledgers, r.Ledgers[symbol])
	}
	return ledgers
}

func sortedKeys(m map[string]*matching.PositionLedger) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

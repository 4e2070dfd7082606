package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"capgains/internal/domain"
	"capgains/internal/idhash"
	"capgains/internal/ingestion"
	"capgains/internal/matching"
	"capgains/internal/observability"
	"capgains/internal/reporting"
	"capgains/internal/storage/migrations"
	pgstore "capgains/internal/storage/postgres"
)

func main() {
	// Parse flags
	csvType := flag.String("csv-type", "", "Input format: etrade or chase")
	symbols := flag.String("symbol", "", "Comma-separated ticker filter (empty processes everything)")
	closeOptions := flag.String("close-options", "auto", "Auto-close residual option positions: auto, true, or false")
	exportPath := flag.String("export", "", "Write a normalized stock-trade CSV to this path")
	markdown := flag.Bool("markdown", false, "Render the report as Markdown instead of plain text")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (empty skips persistence)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync()

	files := flag.Args()
	if *csvType == "" || len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: gains -csv-type etrade|chase [flags] file.csv [file.csv ...]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	parser, err := ingestion.ParserFor(*csvType)
	if err != nil {
		logger.Fatal("unknown csv type", zap.String("csv_type", *csvType), zap.Error(err))
	}

	closing := parser.AutoCloseOptions()
	switch *closeOptions {
	case "auto":
	case "true":
		closing = true
	case "false":
		closing = false
	default:
		logger.Fatal("invalid -close-options value", zap.String("value", *closeOptions))
	}

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			logger.Info("starting metrics server", zap.String("addr", *metricsAddr))
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server error", zap.Error(err))
			}
		}()
	}

	var filter []string
	if *symbols != "" {
		filter = strings.Split(*symbols, ",")
	}

	loader := ingestion.NewLoader(parser, closing, filter)
	result, err := loader.LoadFiles(files)
	if err != nil {
		logger.Fatal("load failed", zap.Error(err))
	}

	logger.Info("loaded trades",
		zap.Int("rows", result.Rows),
		zap.Int("trades", result.Trades),
		zap.Int("symbols", len(result.Ledgers)),
	)
	for _, d := range result.Diagnostics {
		logger.Warn("position repaired",
			zap.String("kind", string(d.Kind)),
			zap.String("symbol", d.Symbol),
			zap.String("contract", d.Contract),
			zap.Int64("residual", d.Residual),
		)
	}

	ledgers := result.SortedLedgers()

	report, err := reporting.NewGenerator(ledgers).Generate()
	if err != nil {
		logger.Fatal("report generation failed", zap.Error(err))
	}

	if *markdown {
		fmt.Print(reporting.RenderMarkdown(report))
	} else {
		fmt.Print(reporting.RenderText(report))
	}

	if *exportPath != "" {
		if err := exportCSV(*exportPath, ledgers); err != nil {
			logger.Fatal("export failed", zap.Error(err))
		}
		logger.Info("wrote export", zap.String("path", *exportPath))
	}

	if *postgresDSN != "" {
		ctx := context.Background()
		if err := persist(ctx, logger, *postgresDSN, *csvType, ledgers); err != nil {
			logger.Fatal("persistence failed", zap.Error(err))
		}
	}
}

func newLogger(verbose bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func exportCSV(path string, ledgers []*matching.PositionLedger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := reporting.WriteExportCSV(f, ledgers); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// persist writes all trades and matched pairs to PostgreSQL with
// deterministic IDs, so reruns over the same input fail on duplicates
// instead of double-counting.
func persist(ctx context.Context, logger *zap.Logger, dsn, source string, ledgers []*matching.PositionLedger) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return err
	}

	tradeStore := pgstore.NewTradeStore(pool)
	pairStore := pgstore.NewPairStore(pool)

	var tradeRows []*domain.TradeRow
	var pairRows []*domain.PairRow
	seq := 0
	pairSeq := 0

	for _, ledger := range ledgers {
		for _, t := range ledger.StockTrades() {
			tradeRows = append(tradeRows, t.Row(idhash.TradeID(t, seq), source))
			seq++
		}
		for _, key := range ledger.ContractKeys() {
			for _, t := range ledger.ContractTrades(key) {
				tradeRows = append(tradeRows, t.Row(idhash.TradeID(t, seq), source))
				seq++
			}
		}

		stockPairs, err := ledger.StockPairs()
		if err != nil {
			return err
		}
		optionPairs, err := ledger.OptionPairs()
		if err != nil {
			return err
		}
		for _, p := range append(stockPairs, optionPairs...) {
			observability.RecordPairMatched(string(p.Kind))
			pairRows = append(pairRows, p.Row(idhash.PairID(p, pairSeq)))
			pairSeq++
		}
	}

	if err := tradeStore.InsertBulk(ctx, tradeRows); err != nil {
		observability.RecordPersistError("trades")
		return fmt.Errorf("persist trades: %w", err)
	}
	observability.RecordRowsPersisted("trades", len(tradeRows))

	if err := pairStore.InsertBulk(ctx, pairRows); err != nil {
		observability.RecordPersistError("matched_pairs")
		return fmt.Errorf("persist pairs: %w", err)
	}
	observability.RecordRowsPersisted("matched_pairs", len(pairRows))

	logger.Info("persisted results",
		zap.Int("trades", len(tradeRows)),
		zap.Int("pairs", len(pairRows)),
	)
	return nil
}

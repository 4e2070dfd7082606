// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	TradesParsed prometheus.Counter
	ParseErrors  *prometheus.CounterVec
	FilesLoaded  prometheus.Counter

	// Matching metrics
	PairsMatched     *prometheus.CounterVec
	SyntheticCloses  prometheus.Counter
	ConfusionRepairs prometheus.Counter
	OpenPositions    prometheus.Gauge

	// Database metrics
	RowsPersisted *prometheus.CounterVec
	PersistErrors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "capgains"
	}

	return &Metrics{
		TradesParsed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "trades_parsed_total",
			Help:      "Total number of trade rows parsed from input files",
		}),
		ParseErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "parse_errors_total",
			Help:      "Total number of rows rejected during parsing by reason",
		}, []string{"reason"}),
		FilesLoaded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "files_loaded_total",
			Help:      "Total number of input files loaded",
		}),

		PairsMatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "pairs_matched_total",
			Help:      "Total number of matched trade pairs by security kind",
		}, []string{"kind"}),
		SyntheticCloses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "synthetic_closes_total",
			Help:      "Total number of synthetic closing trades generated for residual option positions",
		}),
		ConfusionRepairs: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "confusion_repairs_total",
			Help:      "Total number of ambiguous trade groups repaired by sign flip",
		}),
		OpenPositions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "open_positions",
			Help:      "Number of instruments left with an unbalanced position after matching",
		}),

		RowsPersisted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "rows_persisted_total",
			Help:      "Total number of rows written to storage by table",
		}, []string{"table"}),
		PersistErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "persist_errors_total",
			Help:      "Total number of storage write errors by table",
		}, []string{"table"}),
	}
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTradeParsed increments the trades parsed counter.
func RecordTradeParsed() {
	DefaultMetrics.TradesParsed.Inc()
}

// RecordParseError records a rejected input row.
func RecordParseError(reason string) {
	DefaultMetrics.ParseErrors.WithLabelValues(reason).Inc()
}

// RecordFileLoaded increments the files loaded counter.
func RecordFileLoaded() {
	DefaultMetrics.FilesLoaded.Inc()
}

// RecordPairMatched increments the matched pairs counter for a security kind.
func RecordPairMatched(kind string) {
	DefaultMetrics.PairsMatched.WithLabelValues(kind).Inc()
}

// RecordSyntheticClose increments the synthetic closes counter.
func RecordSyntheticClose() {
	DefaultMetrics.SyntheticCloses.Inc()
}

// RecordConfusionRepair increments the confusion repairs counter.
func RecordConfusionRepair() {
	DefaultMetrics.ConfusionRepairs.Inc()
}

// RecordRowsPersisted adds to the persisted rows counter for a table.
func RecordRowsPersisted(table string, n int) {
	DefaultMetrics.RowsPersisted.WithLabelValues(table).Add(float64(n))
}

// RecordPersistError increments the persist errors counter for a table.
func RecordPersistError(table string) {
	DefaultMetrics.PersistErrors.WithLabelValues(table).Inc()
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

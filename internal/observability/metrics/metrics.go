package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "pettycash_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	reportBuildTotal   *prometheus.CounterVec
	reportBuildLatency *prometheus.HistogramVec
	reportRows         prometheus.Histogram

	reportExportTotal   *prometheus.CounterVec
	reportExportLatency *prometheus.HistogramVec

	importRecordsTotal *prometheus.CounterVec

	ledgerEventsTotal  *prometheus.CounterVec
	ledgerEventLatency *prometheus.HistogramVec

	outboxPublishTotal *prometheus.CounterVec
	deadLettersTotal   *prometheus.CounterVec

	httpRequestsTotal  *prometheus.CounterVec
	httpRequestLatency *prometheus.HistogramVec
)

// Init registers service metrics with the default registry. Pass a nil
// querier to skip the database-backed gauges.
func Init(db RowQuerier, logger Logger) {
	registerOnce.Do(func() {
		reportBuildTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_build_total",
				Help: "Total reconciliation reports built by result",
			},
			[]string{"result"},
		)
		reportBuildLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_build_latency_seconds",
				Help:    "Reconciliation report build latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		reportRows = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_rows",
				Help:    "Number of replayed rows per report",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		)

		reportExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		reportExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		importRecordsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "import_records_total",
				Help: "Total upstream records accepted for import by result",
			},
			[]string{"result"},
		)

		ledgerEventsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ledger_events_total",
				Help: "Total ledger events processed by result",
			},
			[]string{"result"},
		)
		ledgerEventLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "ledger_event_latency_seconds",
				Help:    "Ledger event processing latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		outboxPublishTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "outbox_publish_total",
				Help: "Total outbox messages published to the ledger store by result",
			},
			[]string{"result"},
		)
		deadLettersTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "dead_letters_total",
				Help: "Total events sent to the dead letter queue by reason",
			},
			[]string{"reason"},
		)

		httpRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "code"},
		)
		httpRequestLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_latency_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		)

		prometheus.MustRegister(
			reportBuildTotal,
			reportBuildLatency,
			reportRows,
			reportExportTotal,
			reportExportLatency,
			importRecordsTotal,
			ledgerEventsTotal,
			ledgerEventLatency,
			outboxPublishTotal,
			deadLettersTotal,
			httpRequestsTotal,
			httpRequestLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveReportBuild records report build latency, result and size.
func ObserveReportBuild(result string, rows int, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if reportBuildTotal != nil {
		reportBuildTotal.WithLabelValues(result).Inc()
	}
	if reportBuildLatency != nil {
		reportBuildLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
	if reportRows != nil && result == resultSuccess {
		reportRows.Observe(float64(rows))
	}
}

// ObserveReportExport records export latency and result.
func ObserveReportExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if reportExportTotal != nil {
		reportExportTotal.WithLabelValues(format, result).Inc()
	}
	if reportExportLatency != nil {
		reportExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// AddImportRecords counts records handed to the import endpoint.
func AddImportRecords(result string, count int) {
	if count <= 0 {
		return
	}
	if result == "" {
		result = resultSuccess
	}
	if importRecordsTotal != nil {
		importRecordsTotal.WithLabelValues(result).Add(float64(count))
	}
}

// ObserveLedgerEvent records ledger event processing latency and result.
func ObserveLedgerEvent(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if ledgerEventsTotal != nil {
		ledgerEventsTotal.WithLabelValues(result).Inc()
	}
	if ledgerEventLatency != nil {
		ledgerEventLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncOutboxPublish increments the outbox publish counter.
func IncOutboxPublish(result string) {
	if result == "" {
		result = resultSuccess
	}
	if outboxPublishTotal != nil {
		outboxPublishTotal.WithLabelValues(result).Inc()
	}
}

// IncDeadLetter increments the dead letter counter.
func IncDeadLetter(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	if deadLettersTotal != nil {
		deadLettersTotal.WithLabelValues(reason).Inc()
	}
}

// ObserveHTTPRequest records one served request. Unmatched routes share the "unmatched" label.
func ObserveHTTPRequest(route, method string, code int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	if httpRequestsTotal != nil {
		httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	}
	if httpRequestLatency != nil {
		httpRequestLatency.WithLabelValues(route, method).Observe(duration.Seconds())
	}
}

// ResultOf maps an error onto the result label.
func ResultOf(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}

// Exported constants for callers.
const (
	ResultSuccess   = resultSuccess
	ResultError     = resultError
	ResultDuplicate = "duplicate"
	ResultRejected  = "rejected"
)

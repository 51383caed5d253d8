package metrics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
)

const dbGaugeTimeout = 2 * time.Second

// RowQuerier is satisfied by *pgxpool.Pool
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Logger is satisfied by *slog.Logger
type Logger interface {
	Warn(msg string, args ...any)
}

func registerDBMetrics(db RowQuerier, logger Logger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "ledger_outbox_pending",
			Help: "Pending ledger outbox messages",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM ledger_outbox WHERE status = 'PENDING'")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "ledger_outbox_failed",
			Help: "Ledger outbox messages that exhausted their retries",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM ledger_outbox WHERE status = 'FAILED_TO_PUBLISH'")
		},
	))
}

func queryCount(db RowQuerier, logger Logger, query string) float64 {
	if db == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbGaugeTimeout)
	defer cancel()

	var count int64
	if err := db.QueryRow(ctx, query).Scan(&count); err != nil {
		if logger != nil {
			logger.Warn("Metrics query failed", "error", err)
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}

package api_gateway

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pettycash-ledger/internal/api_gateway/handler"
	"github.com/pettycash-ledger/internal/api_gateway/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is implemented by every backing store the health endpoint reports on
type Pinger interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	wallet      *handler.WalletHandler
	transaction *handler.TransactionHandler
	report      *handler.ReportHandler
}

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, r *gin.Engine, h handlers, dependencies map[string]Pinger, metricsPath string) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	v1 := r.Group("/api/v1")
	{
		wallets := v1.Group("/wallets")
		{
			wallets.POST("", h.wallet.Create)
			wallets.GET("/:id", h.wallet.GetByID)
			wallets.GET("/:id/transactions", h.transaction.List)
			wallets.POST("/:id/transactions/import", h.transaction.Import)
			wallets.GET("/:id/report", h.report.Get)
		}
	}

	if metricsPath != "" {
		r.GET(metricsPath, gin.WrapH(promhttp.Handler()))
	}

	r.GET("/health", healthHandler(dependencies))
}

// healthHandler answers 503 when any dependency fails to respond
func healthHandler(dependencies map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		status := http.StatusOK
		checks := make(gin.H, len(dependencies))
		for name, dep := range dependencies {
			if err := dep.Ping(ctx); err != nil {
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		c.JSON(status, gin.H{"status": overall, "checks": checks, "timestamp": time.Now().UTC()})
	}
}

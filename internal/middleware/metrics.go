package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline counters. Per-row and per-document failures never abort a batch, so
// counters are the only place they are visible in aggregate.
var (
	WorkerCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cleaner_worker_calls_total",
		Help: "Calls to the external cleaning/analysis worker by outcome.",
	}, []string{"outcome"})

	IndexWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "search_index_write_failures_total",
		Help: "Per-document search index upsert failures.",
	})

	RowsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_rows_skipped_total",
		Help: "Rows skipped during parsing or loading by reason.",
	}, []string{"reason"})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus handler as a Fiber middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}

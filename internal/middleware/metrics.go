package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verdant_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DocstoreOps counts document store operations by collection and verb.
	DocstoreOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verdant_docstore_operations_total",
		Help: "Total number of document store operations by collection and operation",
	}, []string{"collection", "operation"})

	// CounterStreams is the gauge of live counter-animation streams.
	CounterStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "verdant_counter_streams_active",
		Help: "Number of active people-helped counter websocket streams",
	})
)

var (
	promOnce sync.Once
	promInst *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus HTTP middleware for the given service.
// The default registry rejects duplicate collectors, so the instance is
// shared across servers in one process.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInst = fiberprometheus.New(serviceName)
	})
	return promInst
}

// MetricsMiddleware adapts the Prometheus middleware to a fiber.Handler.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}

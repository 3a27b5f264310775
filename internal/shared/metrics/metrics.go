package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"librarylite/internal/infrastructure/database"
)

const namespace = "librarylite"

// Metrics holds the application's Prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates the HTTP collectors plus process and Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "path"}),
	}

	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// PoolStatsSource is satisfied by *database.PostgresDB.
type PoolStatsSource interface {
	Stats() (*database.PoolStats, error)
}

// RegisterPoolStats exports connection pool gauges read on every scrape.
func (m *Metrics) RegisterPoolStats(src PoolStatsSource) {
	gauge := func(name, help string, read func(*database.PoolStats) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db_pool",
			Name:      name,
			Help:      help,
		}, func() float64 {
			stats, err := src.Stats()
			if err != nil {
				return 0
			}
			return read(stats)
		})
	}

	m.Registry.MustRegister(
		gauge("total_conns", "Total connections in the pool.", func(s *database.PoolStats) float64 { return float64(s.TotalConns) }),
		gauge("idle_conns", "Idle connections in the pool.", func(s *database.PoolStats) float64 { return float64(s.IdleConns) }),
		gauge("acquired_conns", "Connections currently acquired.", func(s *database.PoolStats) float64 { return float64(s.AcquiredConns) }),
		gauge("max_conns", "Configured maximum pool size.", func(s *database.PoolStats) float64 { return float64(s.MaxConns) }),
		gauge("avg_acquire_seconds", "Average time spent acquiring a connection.", func(s *database.PoolStats) float64 {
			return s.AvgAcquireDuration().Seconds()
		}),
	)
}

// Handler returns an HTTP handler exposing the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Middleware records request count, duration and in-flight requests.
// The path label is the matched route template so ids do not explode cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		c.Next()

		path := canonicalPath(c)
		method := strings.ToUpper(c.Request.Method)
		m.httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

func canonicalPath(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}

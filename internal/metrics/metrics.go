// Package metrics exposes Prometheus instrumentation for the HTTP API and the
// current stock levels.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mamadbah2/montwater/internal/domain/models"
)

// HTTPMetrics records request counts and latencies.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics creates the request collectors and registers them on reg.
func NewHTTPMetrics(reg prometheus.Registerer) (*HTTPMetrics, error) {
	m := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path"},
		),
	}

	for _, c := range []prometheus.Collector{m.requestsTotal, m.requestDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Middleware observes every request handled by the engine.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "undefined"
		}

		m.requestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(path).Observe(duration.Seconds())
	}
}

// SummarySource returns the current per-type stock summaries.
type SummarySource interface {
	Summaries() []models.TypeSummary
}

// StockCollector reports the packs on hand per water type at scrape time.
type StockCollector struct {
	source SummarySource
	packs  *prometheus.Desc
	low    *prometheus.Desc
}

// NewStockCollector builds a collector reading from source on every scrape.
func NewStockCollector(source SummarySource) *StockCollector {
	return &StockCollector{
		source: source,
		packs: prometheus.NewDesc(
			"montwater_stock_packs",
			"Packs currently in stock per water type",
			[]string{"water_type"}, nil,
		),
		low: prometheus.NewDesc(
			"montwater_stock_low",
			"1 when the water type is below the low-stock threshold",
			[]string{"water_type"}, nil,
		),
	}
}

func (c *StockCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.packs
	ch <- c.low
}

func (c *StockCollector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range c.source.Summaries() {
		low := 0.0
		if s.Status == models.StockLow {
			low = 1
		}
		ch <- prometheus.MustNewConstMetric(c.packs, prometheus.GaugeValue, float64(s.Stock), string(s.WaterType))
		ch <- prometheus.MustNewConstMetric(c.low, prometheus.GaugeValue, low, string(s.WaterType))
	}
}

package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/catalogcompare/backend/internal/domain"
)

var (
	// HTTPRequestsTotal counts served requests by matched route template.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	// CatalogLoadsTotal counts full catalog reads.
	// Labels:
	//   - source: "file", "http", "postgres"
	//   - result: "success", "error"
	CatalogLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Total number of catalog loads",
		},
		[]string{"source", "result"},
	)

	CatalogLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_load_duration_seconds",
			Help:    "Duration of catalog loads in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"source"},
	)

	// ComparisonsTotal counts comparison requests by view and error kind ("ok" on success).
	ComparisonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparisons_total",
			Help: "Total number of product comparisons",
		},
		[]string{"view", "result"},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordComparison records the outcome of one comparison view.
func RecordComparison(view string, err error) {
	result := "ok"
	if err != nil {
		result = domain.KindOf(err).String()
	}
	ComparisonsTotal.WithLabelValues(view, result).Inc()
}

type instrumentedSource struct {
	name   string
	source domain.CatalogSource
}

// InstrumentSource wraps source so every LoadAll is counted and timed under name.
func InstrumentSource(name string, source domain.CatalogSource) domain.CatalogSource {
	return &instrumentedSource{name: name, source: source}
}

func (s *instrumentedSource) LoadAll(ctx context.Context) ([]domain.Product, error) {
	start := time.Now()
	products, err := s.source.LoadAll(ctx)
	CatalogLoadDuration.WithLabelValues(s.name).Observe(time.Since(start).Seconds())

	result := "success"
	if err != nil {
		result = "error"
	}
	CatalogLoadsTotal.WithLabelValues(s.name, result).Inc()
	return products, err
}

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yourusername/open-isbn/pkg/isbn"
)

// Metrics tracks parse outcomes, stored records and request latency.
type Metrics struct {
	registry        *prometheus.Registry
	ParseOutcomes   *prometheus.CounterVec
	RecordsCreated  prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

// New creates a Metrics instance on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ParseOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "isbn_parse_total",
			Help: "ISBN parse attempts by outcome kind",
		}, []string{"kind"}),
		RecordsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "isbn_records_created_total",
			Help: "Total number of records stored",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "isbn_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route", "status"}),
	}
}

// ObserveParse records the outcome of one parse. err == nil counts as "ok".
func (m *Metrics) ObserveParse(err error) {
	kind := string(isbn.KindOf(err))
	if kind == "" {
		kind = "ok"
	}
	m.ParseOutcomes.WithLabelValues(kind).Inc()
}

// IncrementRecordsCreated records a stored record.
func (m *Metrics) IncrementRecordsCreated() {
	m.RecordsCreated.Inc()
}

// ObserveRequest records the duration of a request.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveRequest(route, status string, start time.Time) {
	m.RequestDuration.WithLabelValues(route, status).Observe(time.Since(start).Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bjaus/usersapi/dispatch"
)

const metricsPrefix = "usersapi"

// unmatchedOperation labels requests that fit no contract.
const unmatchedOperation = "unmatched"

// Metrics records dispatcher outcomes in a private Prometheus registry.
type Metrics struct {
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	violations *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricsPrefix + "_requests_total",
				Help: "Dispatched requests by operation, final stage and status",
			},
			[]string{"operation", "stage", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricsPrefix + "_request_duration_seconds",
				Help:    "Time spent dispatching a request",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		violations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricsPrefix + "_contract_violations_total",
				Help: "Replies that broke their declared response contract",
			},
			[]string{"operation"},
		),
	}

	reg.MustRegister(
		m.requests,
		m.duration,
		m.violations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe records out. It is registered as a dispatcher observer.
func (m *Metrics) Observe(_ *http.Request, out dispatch.Outcome) {
	op := unmatchedOperation
	if out.Contract != nil {
		op = out.Contract.OperationID
	}

	m.requests.WithLabelValues(op, out.Stage.String(), strconv.Itoa(out.Status)).Inc()
	m.duration.WithLabelValues(op).Observe(out.Duration.Seconds())
	if out.Stage == dispatch.OutputRejected {
		m.violations.WithLabelValues(op).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

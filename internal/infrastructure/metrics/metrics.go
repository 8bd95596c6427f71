package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	AccountsCreated        prometheus.Counter
	TransactionsPosted     prometheus.Counter
	DuplicatesRejected     prometheus.Counter
	ImmutabilityViolations prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge
}

// New creates all Prometheus metrics and registers them with reg. Passing
// a fresh registry keeps parallel tests from colliding on metric names.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerbook_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		TransactionsPosted: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerbook_transactions_posted_total",
			Help: "Total number of transactions posted",
		}),
		DuplicatesRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerbook_duplicates_rejected_total",
			Help: "Total number of submissions rejected as duplicates",
		}),
		ImmutabilityViolations: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerbook_immutability_violations_total",
			Help: "Total number of rejected attempts to delete ledger records",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerbook_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerbook_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledgerbook_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),
	}
}

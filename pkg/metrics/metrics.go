package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AggregationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_aggregation_duration_seconds",
			Help:    "Aggregator execution duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"aggregator"},
	)

	AggregationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_aggregation_total",
			Help: "Total aggregator invocations",
		},
		[]string{"aggregator", "status"},
	)

	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_store_errors_total",
			Help: "Total errors returned by the tenant store",
		},
		[]string{"table"},
	)

	CachedClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "analytics_cached_clients",
			Help: "Tenant clients held by the connection registry (never evicted)",
		},
	)
)

// Init registers all collectors with the default registry.
// Call once at process startup.
func Init() {
	prometheus.MustRegister(AggregationDuration)
	prometheus.MustRegister(AggregationTotal)
	prometheus.MustRegister(StoreErrors)
	prometheus.MustRegister(CachedClients)
}

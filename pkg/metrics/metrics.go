package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Address space metrics
	NodesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "opcuad_nodes_total",
			Help: "Total number of nodes in the address space by NodeClass",
		},
		[]string{"node_class"},
	)

	ReferencesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "opcuad_references_total",
			Help: "Total number of reference pairs installed in the address space",
		},
	)

	// Node-management service metrics
	ServiceCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opcuad_service_calls_total",
			Help: "Total number of node-management service calls by operation and status code",
		},
		[]string{"operation", "status"},
	)

	ServiceCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "opcuad_service_call_duration_seconds",
			Help:    "Node-management service call duration in seconds by operation",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Instantiator metrics
	InstantiationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "opcuad_instantiation_duration_seconds",
			Help:    "Time taken to materialize a type instance subtree in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	InstantiationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opcuad_instantiations_total",
			Help: "Total number of type instantiations by outcome",
		},
		[]string{"outcome"},
	)

	InstantiationRollbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "opcuad_instantiation_rollbacks_total",
			Help: "Total number of instantiations that were rolled back after a failure",
		},
	)

	// Lifecycle registry metrics
	ConstructorInvocationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "opcuad_constructor_invocations_total",
			Help: "Total number of lifecycle constructors invoked",
		},
	)

	DestructorInvocationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "opcuad_destructor_invocations_total",
			Help: "Total number of lifecycle destructors invoked",
		},
	)

	// Browse metrics
	BrowseResultsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "opcuad_browse_results_returned",
			Help:    "Number of ReferenceDescription records returned per Browse call",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)
)

func init() {
	prometheus.MustRegister(NodesTotal)
	prometheus.MustRegister(ReferencesTotal)
	prometheus.MustRegister(ServiceCallsTotal)
	prometheus.MustRegister(ServiceCallDuration)
	prometheus.MustRegister(InstantiationDuration)
	prometheus.MustRegister(InstantiationsTotal)
	prometheus.MustRegister(InstantiationRollbacksTotal)
	prometheus.MustRegister(ConstructorInvocationsTotal)
	prometheus.MustRegister(DestructorInvocationsTotal)
	prometheus.MustRegister(BrowseResultsReturned)
}

// Handler returns the Prometheus HTTP handler, for an embedder that wants
// to expose /metrics alongside the OPC UA endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

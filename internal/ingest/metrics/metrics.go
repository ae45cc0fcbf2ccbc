package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultLatencyBuckets is the histogram layout of the ingest exporter,
// in microseconds.
var DefaultLatencyBuckets = []float64{50, 100, 250, 500, 1000, 2000, 5000, 10000}

// Aggregator turns extracted worker events into Prometheus series. It owns
// a private registry so the scrape endpoint exposes exactly the ingest
// metrics and nothing else.
type Aggregator struct {
	ackLatency   prometheus.Histogram
	flushLatency prometheus.Histogram
	publishes    prometheus.Counter
	errors       prometheus.Counter

	registry *prometheus.Registry
}

// NewAggregator creates an Aggregator with the given latency buckets,
// falling back to DefaultLatencyBuckets when none are provided.
func NewAggregator(buckets []float64) *Aggregator {
	if len(buckets) == 0 {
		buckets = DefaultLatencyBuckets
	}

	agg := &Aggregator{
		registry: prometheus.NewRegistry(),
	}

	agg.ackLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hot_ingest_jet_ack_us",
			Help:    "JetStream ack time (microseconds)",
			Buckets: buckets,
		},
	)

	agg.flushLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hot_ingest_pub_flush_us",
			Help:    "Publish+flush time (microseconds)",
			Buckets: buckets,
		},
	)

	agg.publishes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hot_ingest_publishes_total",
			Help: "Total publish attempts",
		},
	)

	agg.errors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hot_ingest_publish_errors_total",
			Help: "Total publish errors",
		},
	)

	agg.registry.MustRegister(
		agg.ackLatency,
		agg.flushLatency,
		agg.publishes,
		agg.errors,
	)

	return agg
}

// ObserveAck records a JetStream ack round trip, in microseconds.
func (a *Aggregator) ObserveAck(us uint64) {
	a.ackLatency.Observe(float64(us))
}

// ObserveFlush records a publish+flush round trip, in microseconds.
func (a *Aggregator) ObserveFlush(us uint64) {
	a.flushLatency.Observe(float64(us))
}

// IncPublishes counts one publish attempt reported by the worker.
func (a *Aggregator) IncPublishes() {
	a.publishes.Inc()
}

// IncErrors counts one publish or telemetry-parse error.
func (a *Aggregator) IncErrors() {
	a.errors.Inc()
}

// Registry exposes the private registry for the scrape handler and tests.
func (a *Aggregator) Registry() *prometheus.Registry {
	return a.registry
}

package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements metrics.Collector on Prometheus vectors.
type Collector struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	accounts   *prometheus.GaugeVec
	interest   *prometheus.CounterVec
}

// NewCollector creates the ledger metric vectors under the given namespace.
func NewCollector(namespace string) *Collector {
	return &Collector{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of ledger operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Ledger operation latency",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 15), // 10µs to ~160ms
			},
			[]string{"operation"},
		),
		accounts: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "accounts",
				Help:      "Number of registered accounts per variant",
			},
			[]string{"variant"},
		),
		interest: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "interest_credited_total",
				Help:      "Total interest credited per variant",
			},
			[]string{"variant"},
		),
	}
}

// Register registers all vectors with the given registerer.
func (c *Collector) Register(registerer prometheus.Registerer) error {
	for _, collector := range []prometheus.Collector{c.operations, c.latency, c.accounts, c.interest} {
		if err := registerer.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// RecordOperation records one ledger operation.
func (c *Collector) RecordOperation(operation, outcome string, duration time.Duration) {
	c.operations.WithLabelValues(operation, outcome).Inc()
	c.latency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordAccountDelta adjusts the account gauge of a variant.
func (c *Collector) RecordAccountDelta(variant string, delta int) {
	c.accounts.WithLabelValues(variant).Add(float64(delta))
}

// RecordInterest adds credited interest for a variant.
func (c *Collector) RecordInterest(variant string, amount float64) {
	if amount <= 0 {
		return
	}
	c.interest.WithLabelValues(variant).Add(amount)
}

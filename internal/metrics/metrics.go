// Package metrics defines how ledger operations are reported to a metrics backend.
package metrics

import "time"

// Collector receives ledger measurements.
// Implementations must be safe for concurrent use.
type Collector interface {
	// RecordOperation records one teller or registry operation with its outcome label
	RecordOperation(operation, outcome string, duration time.Duration)

	// RecordAccountDelta adjusts the number of open accounts of a variant
	RecordAccountDelta(variant string, delta int)

	// RecordInterest records interest credited to an account of a variant
	RecordInterest(variant string, amount float64)
}

// NoOpCollector discards every measurement. It is the default when metrics are not wired.
type NoOpCollector struct{}

// RecordOperation does nothing.
func (NoOpCollector) RecordOperation(operation, outcome string, duration time.Duration) {}

// RecordAccountDelta does nothing.
func (NoOpCollector) RecordAccountDelta(variant string, delta int) {}

// RecordInterest does nothing.
func (NoOpCollector) RecordInterest(variant string, amount float64) {}

// OrNoOp returns c, or a NoOpCollector when c is nil
func OrNoOp(c Collector) Collector {
	if c == nil {
		return NoOpCollector{}
	}
	return c
}

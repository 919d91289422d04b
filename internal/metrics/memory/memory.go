package memory

import (
	"sync"
	"time"
)

// Collector implements metrics.Collector in memory, for tests and local inspection.
type Collector struct {
	mu         sync.Mutex
	operations map[string]map[string]int
	accounts   map[string]int
	interest   map[string]float64
}

// NewCollector creates an empty in-memory collector.
func NewCollector() *Collector {
	return &Collector{
		operations: make(map[string]map[string]int),
		accounts:   make(map[string]int),
		interest:   make(map[string]float64),
	}
}

// RecordOperation counts an operation outcome.
func (c *Collector) RecordOperation(operation, outcome string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.operations[operation] == nil {
		c.operations[operation] = make(map[string]int)
	}
	c.operations[operation][outcome]++
}

// RecordAccountDelta adjusts the account count of a variant.
func (c *Collector) RecordAccountDelta(variant string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accounts[variant] += delta
}

// RecordInterest adds credited interest for a variant.
func (c *Collector) RecordInterest(variant string, amount float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interest[variant] += amount
}

// Operations returns how many times operation finished with outcome.
func (c *Collector) Operations(operation, outcome string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.operations[operation][outcome]
}

// Accounts returns the tracked account count of a variant.
func (c *Collector) Accounts(variant string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accounts[variant]
}

// Interest returns the interest recorded for a variant.
func (c *Collector) Interest(variant string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interest[variant]
}

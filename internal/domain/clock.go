package domain

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current instant to accounts
type Clock interface {
	Now() time.Time
}

// IDGenerator mints transaction record ids
type IDGenerator interface {
	NewID() string
}

// SystemClock reads the wall clock (with its monotonic component)
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time { return time.Now() }

// UUIDGenerator mints time-ordered ids backed by UUIDv7
type UUIDGenerator struct{}

// NewID returns a new "TXN-" prefixed id
func (UUIDGenerator) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does
		id = uuid.New()
	}
	return "TXN-" + id.String()
}

// SequenceGenerator mints ids from a counter. Useful when deterministic ids are wanted.
type SequenceGenerator struct {
	Prefix string
	next   atomic.Int64
}

// NewID returns Prefix followed by a zero-padded sequence number
func (g *SequenceGenerator) NewID() string {
	n := g.next.Add(1)
	prefix := g.Prefix
	if prefix == "" {
		prefix = "TXN"
	}
	return fmt.Sprintf("%s-%06d", prefix, n)
}

// FixedClock is a manually driven clock
type FixedClock struct {
	now atomic.Int64
}

// NewFixedClock returns a clock frozen at t
func NewFixedClock(t time.Time) *FixedClock {
	c := &FixedClock{}
	c.Set(t)
	return c
}

// Now returns the frozen instant
func (c *FixedClock) Now() time.Time { return time.Unix(0, c.now.Load()).UTC() }

// Set moves the clock to t
func (c *FixedClock) Set(t time.Time) { c.now.Store(t.UnixNano()) }

// Advance moves the clock forward by d
func (c *FixedClock) Advance(d time.Duration) { c.now.Add(int64(d)) }

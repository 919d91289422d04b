package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/simaogato/ledger-backend/internal/metrics"
)

var _ metrics.Collector = (*Collector)(nil)

func TestCollector_ConcurrentRecords(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RecordOperation("deposit", "ok", time.Microsecond)
			c.RecordAccountDelta("CURRENT", 1)
			c.RecordInterest("SAVINGS", 0.5)
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, c.Operations("deposit", "ok"))
	assert.Equal(t, 0, c.Operations("deposit", "inactive"))
	assert.Equal(t, 100, c.Accounts("CURRENT"))
	assert.InDelta(t, 50.0, c.Interest("SAVINGS"), 1e-9)
}

func TestOrNoOp(t *testing.T) {
	assert.IsType(t, metrics.NoOpCollector{}, metrics.OrNoOp(nil))

	c := NewCollector()
	assert.Same(t, c, metrics.OrNoOp(c))
}

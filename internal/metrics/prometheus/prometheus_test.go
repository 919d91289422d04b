package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/ledger-backend/internal/metrics"
)

var _ metrics.Collector = (*Collector)(nil)

func TestCollector_Records(t *testing.T) {
	c := NewCollector("ledger")

	c.RecordOperation("deposit", "ok", time.Millisecond)
	c.RecordOperation("deposit", "ok", time.Millisecond)
	c.RecordOperation("withdraw", "insufficient_funds", time.Millisecond)
	c.RecordAccountDelta("SAVINGS", 2)
	c.RecordAccountDelta("SAVINGS", -1)
	c.RecordInterest("SAVINGS", 90)
	c.RecordInterest("SAVINGS", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.operations.WithLabelValues("deposit", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("withdraw", "insufficient_funds")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.accounts.WithLabelValues("SAVINGS")))
	assert.Equal(t, 90.0, testutil.ToFloat64(c.interest.WithLabelValues("SAVINGS")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.latency))
}

func TestCollector_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("ledger")

	require.NoError(t, c.Register(reg))
	assert.Error(t, c.Register(reg), "registering twice collides")

	c.RecordOperation("transfer", "ok", time.Millisecond)
	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}
	assert.Contains(t, names, "ledger_operations_total")
	assert.Contains(t, names, "ledger_operation_duration_seconds")
}

package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.RecordPurchase("done")
	m.RecordPurchase("done")
	m.RecordBalanceMutation("debit_wallet", errors.New("x"))
	m.RecordBonusLookup("hit")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.purchasesTotal.WithLabelValues("done")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.balanceMutations.WithLabelValues("debit_wallet", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bonusCacheTotal.WithLabelValues("hit")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordPurchase("done")
		m.RecordBalanceMutation("credit_wallet", nil)
		m.RecordBonusLookup("miss")
	})
}

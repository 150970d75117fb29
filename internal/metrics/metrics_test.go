package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mmynk/sharetab/internal/models"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ExpenseAdded()
	m.ExpenseAdded()
	m.ExpenseToggled(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.expensesAdded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.expensesToggled.WithLabelValues("true")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.expensesToggled.WithLabelValues("false")))

	m.ObserveSummary(models.Summary{
		Settlements: []models.Settlement{
			{From: "Bob", To: "Alice", Amount: decimal.NewFromInt(30)},
			{From: "Charlie", To: "Alice", Amount: decimal.RequireFromString("12.5")},
		},
	})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.settlements))
	assert.InDelta(t, 42.5, testutil.ToFloat64(m.unsettledDebt), 1e-9)

	m.ObserveSummary(models.Summary{})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.settlements))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ExpenseAdded()
		m.ExpenseToggled(false)
		m.ObserveSummary(models.Summary{})
		_ = m.Interceptor()
	})
}

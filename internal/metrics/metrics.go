// Package metrics exposes Prometheus instrumentation for the ledger server.
package metrics

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mmynk/sharetab/internal/models"
)

const namespace = "sharetab"

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	expensesAdded   prometheus.Counter
	expensesToggled *prometheus.CounterVec
	settlements     prometheus.Gauge
	unsettledDebt   prometheus.Gauge
	rpcDuration     *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		expensesAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_added_total",
			Help:      "Expenses recorded in this session.",
		}),
		expensesToggled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_toggled_total",
			Help:      "Settle toggles, by resulting state.",
		}, []string{"settled"}),
		settlements: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_settlements",
			Help:      "Payments in the current settlement plan.",
		}),
		unsettledDebt: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_settlement_amount",
			Help:      "Total amount of the current settlement plan.",
		}),
		rpcDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Unary RPC latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
}

// ExpenseAdded counts a recorded expense.
func (m *Metrics) ExpenseAdded() {
	if m == nil {
		return
	}
	m.expensesAdded.Inc()
}

// ExpenseToggled counts a settle toggle.
func (m *Metrics) ExpenseToggled(settled bool) {
	if m == nil {
		return
	}
	label := "false"
	if settled {
		label = "true"
	}
	m.expensesToggled.WithLabelValues(label).Inc()
}

// ObserveSummary records the size of the latest settlement plan.
func (m *Metrics) ObserveSummary(summary models.Summary) {
	if m == nil {
		return
	}
	total := 0.0
	for _, s := range summary.Settlements {
		total += s.Amount.InexactFloat64()
	}
	m.settlements.Set(float64(len(summary.Settlements)))
	m.unsettledDebt.Set(total)
}

// Interceptor returns a Connect interceptor that times every unary call.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if m == nil {
				return next(ctx, req)
			}
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.rpcDuration.WithLabelValues(req.Spec().Procedure, code).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

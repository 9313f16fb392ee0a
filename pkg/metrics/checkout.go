package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Checkout outcomes used as the "outcome" label.
const (
	OutcomeAttempted = "attempted"
	OutcomeConfirmed = "confirmed"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
)

// CheckoutMetrics tracks messaging hand-offs and cart population.
type CheckoutMetrics struct {
	handoffs    *prometheus.CounterVec
	orderTotals prometheus.Histogram
	activeCarts prometheus.Gauge
	sweptCarts  prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on reg. A nil registerer
// yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	m := &CheckoutMetrics{
		handoffs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_handoffs_total",
			Help:      "Checkout submissions by outcome.",
		}, []string{"outcome"}),
		orderTotals: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_order_total_brl",
			Help:      "Order totals handed off to the store, in BRL.",
			Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
		activeCarts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "carts_active",
			Help:      "Carts currently held in memory.",
		}),
		sweptCarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carts_swept_total",
			Help:      "Idle carts evicted by the sweep job.",
		}),
	}
	reg.MustRegister(m.handoffs, m.orderTotals, m.activeCarts, m.sweptCarts)
	return m
}

// ObserveHandoff counts one submission with the given outcome.
func (m *CheckoutMetrics) ObserveHandoff(outcome string) {
	if m == nil || m.handoffs == nil {
		return
	}
	m.handoffs.WithLabelValues(outcome).Inc()
}

// ObserveOrderTotal records the total of a handed-off order.
func (m *CheckoutMetrics) ObserveOrderTotal(total decimal.Decimal) {
	if m == nil || m.orderTotals == nil {
		return
	}
	m.orderTotals.Observe(total.InexactFloat64())
}

// SetActiveCarts publishes the current cart count.
func (m *CheckoutMetrics) SetActiveCarts(n int) {
	if m == nil || m.activeCarts == nil {
		return
	}
	m.activeCarts.Set(float64(n))
}

// AddSwept counts carts evicted by a sweep.
func (m *CheckoutMetrics) AddSwept(n int) {
	if m == nil || m.sweptCarts == nil || n <= 0 {
		return
	}
	m.sweptCarts.Add(float64(n))
}

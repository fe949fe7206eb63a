package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeApplied = "applied"
	OutcomeNoop    = "noop"
	OutcomeFailed  = "failed"
)

// CartMetrics counts cart engine activity.
type CartMetrics struct {
	operations *prometheus.CounterVec
	notices    *prometheus.CounterVec
	reloads    prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer. A nil
// registerer yields a recorder that drops everything.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart engine operations by kind and outcome.",
	}, []string{"op", "outcome"})
	notices := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_notices_total",
		Help: "Shopper-facing cart notices by kind.",
	}, []string{"kind"})
	reloads := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_reloads_total",
		Help: "Cart documents re-read after an external storage change.",
	})
	reg.MustRegister(operations, notices, reloads)
	return &CartMetrics{
		operations: operations,
		notices:    notices,
		reloads:    reloads,
	}
}

// Observe counts one operation outcome.
func (c *CartMetrics) Observe(op, outcome string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

// IncNotice counts one emitted notice.
func (c *CartMetrics) IncNotice(kind string) {
	if c == nil || c.notices == nil {
		return
	}
	c.notices.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncReload counts one storage-triggered reload.
func (c *CartMetrics) IncReload() {
	if c == nil || c.reloads == nil {
		return
	}
	c.reloads.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart command outcomes and slot persistence health.
type CartMetrics struct {
	duration    *prometheus.HistogramVec
	operations  *prometheus.CounterVec
	persistence *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cart_operation_duration_seconds",
		Help:      "Duration of cart commands including rehydrate and write-through.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_operations_total",
		Help:      "Cart commands by operation and result.",
	}, []string{"operation", "result"})
	persistence := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_persistence_failures_total",
		Help:      "Swallowed cart slot failures by slot and phase (load/save/delete).",
	}, []string{"slot", "phase"})
	reg.MustRegister(duration, operations, persistence)
	return &CartMetrics{
		duration:    duration,
		operations:  operations,
		persistence: persistence,
	}
}

// ObserveOperation records the duration and result of a cart command.
func (c *CartMetrics) ObserveOperation(op string, duration time.Duration, err error) {
	if c == nil || c.operations == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	op = normalizeLabel(op)
	c.duration.WithLabelValues(op).Observe(duration.Seconds())
	c.operations.WithLabelValues(op, result).Inc()
}

// IncPersistenceFailure counts a slot failure that was logged and swallowed.
func (c *CartMetrics) IncPersistenceFailure(slot, phase string) {
	if c == nil || c.persistence == nil {
		return
	}
	c.persistence.WithLabelValues(normalizeLabel(slot), normalizeLabel(phase)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

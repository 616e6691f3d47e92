package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ForwardingMetrics counts forwarding activity by outcome so operators can
// alert on stuck or failing payments.
type ForwardingMetrics struct {
	attempts  *prometheus.CounterVec
	batchRuns prometheus.Counter
	processed prometheus.Counter
}

func NewForwardingMetrics(registry *prometheus.Registry) *ForwardingMetrics {
	m := &ForwardingMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_forward_attempts_total",
			Help: "Forwarding attempts by outcome and chain.",
		}, []string{"chain", "outcome"}),
		batchRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "payment_forward_batch_runs_total",
			Help: "Batch forward invocations.",
		}),
		processed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "payment_forward_batch_processed_total",
			Help: "Payments picked up by batch forwarding.",
		}),
	}

	registry.MustRegister(m.attempts, m.batchRuns, m.processed)
	return m
}

func (m *ForwardingMetrics) RecordAttempt(chain, outcome string) {
	m.attempts.WithLabelValues(chain, outcome).Inc()
}

func (m *ForwardingMetrics) RecordBatch(processed int) {
	m.batchRuns.Inc()
	m.processed.Add(float64(processed))
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// WorkflowMetrics counts inventory workflow outcomes (render, redirect,
// validation failure, referential conflict) per operation.
type WorkflowMetrics struct {
	outcomes *prometheus.CounterVec
}

func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_workflow_outcomes_total",
		Help: "Inventory workflow outcomes by operation.",
	}, []string{"operation", "outcome"})
	reg.MustRegister(outcomes)
	return &WorkflowMetrics{outcomes: outcomes}
}

func (m *WorkflowMetrics) IncOutcome(operation, outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample gathers reg and returns the series of family name whose labels
// include every pair in want, or nil.
func sample(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) *dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			have := map[string]string{}
			for _, pair := range m.GetLabel() {
				have[pair.GetName()] = pair.GetValue()
			}
			matched := true
			for k, v := range want {
				if have[k] != v {
					matched = false
					break
				}
			}
			if matched {
				return m
			}
		}
	}
	return nil
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.ObserveRequest("GET", "/inventory/item", 200, 250*time.Millisecond)
	m.ObserveRequest("GET", "/inventory/item", 200, 50*time.Millisecond)
	m.ObserveRequest("POST", "", 404, time.Millisecond)
	m.IncRateLimited()

	requests := sample(t, reg, "http_requests_total", map[string]string{"route": "/inventory/item", "status": "200"})
	require.NotNil(t, requests)
	assert.Equal(t, 2.0, requests.GetCounter().GetValue())

	assert.NotNil(t, sample(t, reg, "http_requests_total", map[string]string{"route": "unknown"}),
		"an empty route is recorded as unknown")

	duration := sample(t, reg, "http_request_duration_seconds", map[string]string{"route": "/inventory/item"})
	require.NotNil(t, duration)
	assert.EqualValues(t, 2, duration.GetHistogram().GetSampleCount())
	assert.InDelta(t, 0.3, duration.GetHistogram().GetSampleSum(), 1e-9)

	limited := sample(t, reg, "http_rate_limited_total", nil)
	require.NotNil(t, limited)
	assert.Equal(t, 1.0, limited.GetCounter().GetValue())
}

func TestWorkflowMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorkflowMetrics(reg)
	m.IncOutcome("create_item", "validation_failed")
	m.IncOutcome("create_item", "validation_failed")
	m.IncOutcome("delete_category", "conflict")

	failed := sample(t, reg, "inventory_workflow_outcomes_total", map[string]string{"outcome": "validation_failed"})
	require.NotNil(t, failed)
	assert.Equal(t, 2.0, failed.GetCounter().GetValue())

	assert.Nil(t, sample(t, reg, "inventory_workflow_outcomes_total", map[string]string{"outcome": "created"}))
}

func TestNilRegistererIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		var m *HTTPMetrics
		m.ObserveRequest("GET", "/", 200, time.Second)
		NewHTTPMetrics(nil).IncRateLimited()
		NewWorkflowMetrics(nil).IncOutcome("x", "y")
	})
}

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()
	m.Diagnostics.WithLabelValues("empty_input").Inc()
	m.MalformedValues.WithLabelValues("score").Add(2)
	m.ReportsLoaded.Add(3)
	m.Neighborhoods.Set(19)

	assert.InDelta(t, 1.0, testutil.ToFloat64(m.Diagnostics.WithLabelValues("empty_input")), 1e-9)
	assert.InDelta(t, 2.0, testutil.ToFloat64(m.MalformedValues.WithLabelValues("score")), 1e-9)
	assert.InDelta(t, 3.0, testutil.ToFloat64(m.ReportsLoaded), 1e-9)
	assert.InDelta(t, 19.0, testutil.ToFloat64(m.Neighborhoods), 1e-9)
}

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()
	a.RunErrors.Inc()
	assert.Zero(t, testutil.ToFloat64(b.RunErrors))
}

func TestNewMetricsWith_Registry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)
	m.ProfilesProduced.Add(19)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "reliability_profiles_produced_total")
	assert.Contains(t, names, "reliability_pipeline_running")
}

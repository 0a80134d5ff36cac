package promadapters_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohjuntaek/datasource-decorator-go/decorator/promadapters"
)

func Test_NewMetricsCollector_Construction(t *testing.T) {
	collector := promadapters.NewMetricsCollector(prometheus.NewRegistry())
	assert.NotNil(t, collector, "NewMetricsCollector should return non-nil collector")
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	labels := map[string]string{
		"datasource": "primary",
	}

	collector.RecordDuration("datasource.acquire.duration", 150*time.Millisecond, labels)
	collector.RecordDuration("datasource.acquire.duration", 250*time.Millisecond, labels)

	family := gatherFamily(t, registry, "datasource_acquire_duration")
	require.Len(t, family.GetMetric(), 1, "Expected exactly one series")

	histogram := family.GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(2), histogram.GetSampleCount(), "Histogram count should be 2")
	assert.InDelta(t, 0.4, histogram.GetSampleSum(), 0.001, "Histogram sum should be 0.4 seconds")
	assertLabel(t, family.GetMetric()[0], "datasource", "primary")
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	labels := map[string]string{
		"datasource": "primary",
	}

	collector.IncrementCounter("datasource.acquire.total", labels)
	collector.IncrementCounter("datasource.acquire.total", labels)
	collector.IncrementCounter("datasource.acquire.total", labels)

	family := gatherFamily(t, registry, "datasource_acquire_total")
	require.Len(t, family.GetMetric(), 1, "Expected exactly one series")

	assert.Equal(t, 3.0, family.GetMetric()[0].GetCounter().GetValue(), "Counter should have been incremented 3 times")
	assertLabel(t, family.GetMetric()[0], "datasource", "primary")
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	labels := map[string]string{
		"datasource": "primary",
		"state":      "active",
	}

	// last value wins for gauges
	collector.RecordValue("datasource.server.connections", 10.0, labels)
	collector.RecordValue("datasource.server.connections", 42.0, labels)

	family := gatherFamily(t, registry, "datasource_server_connections")
	require.Len(t, family.GetMetric(), 1, "Expected exactly one series")

	assert.Equal(t, 42.0, family.GetMetric()[0].GetGauge().GetValue(), "Gauge should have the last recorded value")
	assertLabel(t, family.GetMetric()[0], "state", "active")
}

func Test_MetricsCollector_DistinctLabelValues_ProduceDistinctSeries(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	collector.IncrementCounter("datasource.acquire.total", map[string]string{"datasource": "primary"})
	collector.IncrementCounter("datasource.acquire.total", map[string]string{"datasource": "replica"})

	family := gatherFamily(t, registry, "datasource_acquire_total")
	assert.Len(t, family.GetMetric(), 2, "Expected one series per label value")
}

func Test_MetricsCollector_RegistrationConflict_IsSwallowed(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	// Occupy the normalized name with an incompatible collector
	conflicting := prometheus.NewCounter(prometheus.CounterOpts{Name: "datasource_acquire_total"})
	require.NoError(t, registry.Register(conflicting))

	assert.NotPanics(t, func() {
		collector.IncrementCounter("datasource.acquire.total", nil)
	}, "IncrementCounter should not panic when registration fails")
}

func gatherFamily(t *testing.T, registry *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()

	families, err := registry.Gather()
	require.NoError(t, err, "Failed to gather metrics")

	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}

	t.Fatalf("Metric family %q not found", name)
	return nil
}

func assertLabel(t *testing.T, m *dto.Metric, name, value string) {
	t.Helper()

	for _, pair := range m.GetLabel() {
		if pair.GetName() == name {
			assert.Equal(t, value, pair.GetValue(), "Label %q should match", name)
			return
		}
	}

	t.Fatalf("Label %q not found", name)
}

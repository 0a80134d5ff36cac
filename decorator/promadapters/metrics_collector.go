// Package promadapters provides a Prometheus adapter for the decorator
// metrics interface, for applications that expose metrics through a
// Prometheus registry instead of OpenTelemetry.
package promadapters

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ohjuntaek/datasource-decorator-go/decorator"
)

// MetricsCollector implements decorator.MetricsCollector on a Prometheus
// registry. It maps the collector interface to Prometheus metric types:
//   - RecordDuration -> Histogram (seconds)
//   - IncrementCounter -> Counter
//   - RecordValue -> Gauge
//
// Metric names are normalized to Prometheus conventions by replacing dots
// with underscores. Instruments are created on-demand with the label names
// of their first observation.
type MetricsCollector struct {
	registerer prometheus.Registerer
	mu         sync.Mutex
	histograms map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
}

// NewMetricsCollector creates a Prometheus metrics collector registering its
// instruments with the given registerer.
func NewMetricsCollector(registerer prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		registerer: registerer,
		histograms: make(map[string]*prometheus.HistogramVec),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}
}

// RecordDuration records a duration measurement on a histogram, in seconds.
func (m *MetricsCollector) RecordDuration(metricName string, duration time.Duration, labels map[string]string) {
	histogram := m.getOrCreateHistogram(metricName, labelNames(labels))
	if histogram == nil {
		return
	}

	histogram.With(labels).Observe(duration.Seconds())
}

// IncrementCounter increments a counter.
func (m *MetricsCollector) IncrementCounter(metricName string, labels map[string]string) {
	counter := m.getOrCreateCounter(metricName, labelNames(labels))
	if counter == nil {
		return
	}

	counter.With(labels).Inc()
}

// RecordValue records a current value on a gauge.
func (m *MetricsCollector) RecordValue(metricName string, value float64, labels map[string]string) {
	gauge := m.getOrCreateGauge(metricName, labelNames(labels))
	if gauge == nil {
		return
	}

	gauge.With(labels).Set(value)
}

func labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}

	return names
}

func normalizeName(name string) string {
	normalized := []byte(name)
	for i := range normalized {
		if normalized[i] == '.' {
			normalized[i] = '_'
		}
	}

	return string(normalized)
}

func (m *MetricsCollector) getOrCreateHistogram(name string, names []string) *prometheus.HistogramVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	if histogram, exists := m.histograms[name]; exists {
		return histogram
	}

	histogram := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: normalizeName(name),
		Help: "DataSource operation duration in seconds",
	}, names)

	if err := m.registerer.Register(histogram); err != nil {
		return nil
	}

	m.histograms[name] = histogram
	return histogram
}

func (m *MetricsCollector) getOrCreateCounter(name string, names []string) *prometheus.CounterVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	if counter, exists := m.counters[name]; exists {
		return counter
	}

	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: normalizeName(name),
		Help: "DataSource operation counter",
	}, names)

	if err := m.registerer.Register(counter); err != nil {
		return nil
	}

	m.counters[name] = counter
	return counter
}

func (m *MetricsCollector) getOrCreateGauge(name string, names []string) *prometheus.GaugeVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gauge, exists := m.gauges[name]; exists {
		return gauge
	}

	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: normalizeName(name),
		Help: "DataSource current value",
	}, names)

	if err := m.registerer.Register(gauge); err != nil {
		return nil
	}

	m.gauges[name] = gauge
	return gauge
}

// Ensure MetricsCollector implements decorator.MetricsCollector.
var _ decorator.MetricsCollector = (*MetricsCollector)(nil)

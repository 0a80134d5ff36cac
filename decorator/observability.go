package decorator

import (
	"time"
)

// Logger interface for query logging, operational messages, warnings, and
// error reporting from decorator layers. A nil Logger disables logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector interface for collecting pool performance and operational
// metrics from decorator layers. This interface follows a dependency-free
// pattern, allowing users to integrate with any metrics backend
// (OpenTelemetry, Prometheus, etc.) by implementing this interface.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// Package poolmetrics provides the built-in adaptive pool metrics decorator.
// It sits closest to the real pool, records every connection acquisition
// through a MetricsCollector, and periodically samples the server-side
// connection states from pg_stat_activity.
package poolmetrics

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import

	"github.com/ohjuntaek/datasource-decorator-go/decorator"
)

// Name identifies the pool metrics decorator in catalogs, exclusion rules,
// and chain rendering.
const Name = "poolMetricsDataSourceDecorator"

const (
	metricAcquireDuration  = "datasource.acquire.duration"
	metricAcquireTotal     = "datasource.acquire.total"
	metricAcquireFailures  = "datasource.acquire.failures"
	metricSampleFailures   = "datasource.sample.failures"
	metricServerConns      = "datasource.server.connections"
	labelResource          = "resource"
	labelState             = "state"
	defaultSampleEvery     = 100
	dialectPostgres        = "postgres"
	statActivityTable      = "pg_stat_activity"
	colState               = "state"
	colDatname             = "datname"
	aliasConnectionCount   = "connection_count"
	stateUnknown           = "unknown"
	currentDatabaseLiteral = "current_database()"
)

var ErrNilMetricsCollector = errors.New("nil metrics collector supplied")
var ErrInvalidSampleInterval = errors.New("sample interval must be positive")

var _ decorator.DataSource = (*MetricsDataSource)(nil)

// Option defines a functional option for configuring MetricsDataSource.
type Option func(*MetricsDataSource) error

// WithSampleEvery sets after how many successful acquisitions the
// server-side connection states are sampled.
func WithSampleEvery(acquisitions uint64) Option {
	return func(ds *MetricsDataSource) error {
		if acquisitions == 0 {
			return ErrInvalidSampleInterval
		}

		ds.sampleEvery = acquisitions

		return nil
	}
}

// Definition returns the catalog definition of the pool metrics decorator.
// The decorator is unavailable when collector is nil.
func Definition(collector decorator.MetricsCollector, options ...Option) decorator.Definition {
	return decorator.NewDefinition(
		Name,
		decorator.PriorityPoolMetrics,
		func() bool { return collector != nil },
		func(resourceName string, previous decorator.DataSource) (decorator.DataSource, error) {
			return NewMetricsDataSource(resourceName, previous, collector, options...)
		},
	)
}

// MetricsDataSource is the pool metrics layer around the next DataSource.
type MetricsDataSource struct {
	resourceName string
	next         decorator.DataSource
	metrics      decorator.MetricsCollector
	sampleEvery  uint64
	acquired     atomic.Uint64
}

// NewMetricsDataSource wraps next with acquisition metrics for the named
// resource, with optional configuration.
func NewMetricsDataSource(
	resourceName string,
	next decorator.DataSource,
	collector decorator.MetricsCollector,
	options ...Option,
) (*MetricsDataSource, error) {

	if collector == nil {
		return nil, ErrNilMetricsCollector
	}

	dataSource := &MetricsDataSource{
		resourceName: resourceName,
		next:         next,
		metrics:      collector,
		sampleEvery:  defaultSampleEvery,
	}

	for _, option := range options {
		if err := option(dataSource); err != nil {
			return nil, err
		}
	}

	return dataSource, nil
}

// Connection acquires a connection from the next layer, recording the
// acquisition duration and outcome. Every sampleEvery-th successful
// acquisition additionally samples the server-side connection states.
func (ds *MetricsDataSource) Connection(ctx context.Context) (decorator.Connection, error) {
	start := time.Now()
	conn, err := ds.next.Connection(ctx)
	duration := time.Since(start)

	ds.metrics.RecordDuration(metricAcquireDuration, duration, ds.labels())

	if err != nil {
		ds.metrics.IncrementCounter(metricAcquireFailures, ds.labels())
		return nil, err
	}

	ds.metrics.IncrementCounter(metricAcquireTotal, ds.labels())

	if ds.acquired.Add(1)%ds.sampleEvery == 0 {
		ds.sampleServerState(ctx, conn)
	}

	return conn, nil
}

// ConnectionWithCredentials acquires a connection with explicit credentials
// from the next layer, recording the acquisition duration and outcome.
func (ds *MetricsDataSource) ConnectionWithCredentials(ctx context.Context, username, password string) (decorator.Connection, error) {
	start := time.Now()
	conn, err := ds.next.ConnectionWithCredentials(ctx, username, password)
	duration := time.Since(start)

	ds.metrics.RecordDuration(metricAcquireDuration, duration, ds.labels())

	if err != nil {
		ds.metrics.IncrementCounter(metricAcquireFailures, ds.labels())
		return nil, err
	}

	ds.metrics.IncrementCounter(metricAcquireTotal, ds.labels())

	return conn, nil
}

// LogWriter returns the log writer of the next layer.
func (ds *MetricsDataSource) LogWriter() io.Writer {
	return ds.next.LogWriter()
}

// SetLogWriter sets the log writer on the next layer.
func (ds *MetricsDataSource) SetLogWriter(writer io.Writer) {
	ds.next.SetLogWriter(writer)
}

// LoginTimeout returns the login timeout of the next layer.
func (ds *MetricsDataSource) LoginTimeout() time.Duration {
	return ds.next.LoginTimeout()
}

// SetLoginTimeout sets the login timeout on the next layer.
func (ds *MetricsDataSource) SetLoginTimeout(timeout time.Duration) {
	ds.next.SetLoginTimeout(timeout)
}

// Unwrap assigns this layer when it matches the target and otherwise
// continues the search at the next layer.
func (ds *MetricsDataSource) Unwrap(target any) error {
	if decorator.UnwrapInto(target, ds) {
		return nil
	}

	return ds.next.Unwrap(target)
}

// IsWrapperFor reports whether Unwrap would succeed for the target.
func (ds *MetricsDataSource) IsWrapperFor(target any) bool {
	if decorator.CanUnwrap(target, ds) {
		return true
	}

	return ds.next.IsWrapperFor(target)
}

// sampleServerState counts the server-side connections of the current
// database grouped by state and records one gauge value per state. Sampling
// failures are counted, never surfaced to the caller.
func (ds *MetricsDataSource) sampleServerState(ctx context.Context, conn decorator.Connection) {
	sqlQuery, buildErr := buildSampleQuery()
	if buildErr != nil {
		ds.metrics.IncrementCounter(metricSampleFailures, ds.labels())
		return
	}

	rows, queryErr := conn.Query(ctx, sqlQuery)
	if queryErr != nil {
		ds.metrics.IncrementCounter(metricSampleFailures, ds.labels())
		return
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var state string
		var connectionCount int64

		if scanErr := rows.Scan(&state, &connectionCount); scanErr != nil {
			ds.metrics.IncrementCounter(metricSampleFailures, ds.labels())
			return
		}

		labels := ds.labels()
		labels[labelState] = state
		ds.metrics.RecordValue(metricServerConns, float64(connectionCount), labels)
	}
}

func (ds *MetricsDataSource) labels() map[string]string {
	return map[string]string{labelResource: ds.resourceName}
}

func buildSampleQuery() (string, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(statActivityTable).
		Select(
			goqu.COALESCE(goqu.C(colState), stateUnknown).As(colState),
			goqu.COUNT(goqu.Star()).As(aliasConnectionCount),
		).
		Where(goqu.C(colDatname).Eq(goqu.L(currentDatabaseLiteral))).
		GroupBy(goqu.COALESCE(goqu.C(colState), stateUnknown))

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", toSQLErr
	}

	return sqlQuery, nil
}

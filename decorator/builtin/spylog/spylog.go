// Package spylog provides the built-in query-logging decorator. It wraps
// every connection of the decorated DataSource and logs each statement with
// its execution time; when the DataSource has a log writer configured, a
// JSON-encoded query event is emitted there as well.
package spylog

import (
	"context"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/ohjuntaek/datasource-decorator-go/decorator"
)

// Name identifies the query-logging decorator in catalogs, exclusion rules,
// and chain rendering.
const Name = "spyLogDataSourceDecorator"

const (
	logMsgQueryExecuted    = "executed query"
	logMsgExecExecuted     = "executed statement"
	logMsgAcquireFailed    = "acquiring a connection failed"
	logMsgWriteEventFailed = "writing query event failed"
	logAttrResource        = "resource"
	logAttrQuery           = "query"
	logAttrError           = "error"
	logAttrDurationMS      = "duration_ms"
	eventCategoryStatement = "statement"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var _ decorator.DataSource = (*SpyDataSource)(nil)

// Definition returns the catalog definition of the query-logging decorator.
// The decorator is unavailable when logger is nil.
func Definition(logger decorator.Logger) decorator.Definition {
	return decorator.NewDefinition(
		Name,
		decorator.PriorityQueryLog,
		func() bool { return logger != nil },
		func(resourceName string, previous decorator.DataSource) (decorator.DataSource, error) {
			return NewSpyDataSource(resourceName, previous, logger), nil
		},
	)
}

// SpyDataSource is the query-logging layer around the next DataSource.
type SpyDataSource struct {
	resourceName string
	next         decorator.DataSource
	logger       decorator.Logger
}

// NewSpyDataSource wraps next with query logging for the named resource.
func NewSpyDataSource(resourceName string, next decorator.DataSource, logger decorator.Logger) *SpyDataSource {
	return &SpyDataSource{
		resourceName: resourceName,
		next:         next,
		logger:       logger,
	}
}

// Connection acquires a connection from the next layer and wraps it with
// statement logging.
func (ds *SpyDataSource) Connection(ctx context.Context) (decorator.Connection, error) {
	conn, err := ds.next.Connection(ctx)
	if err != nil {
		ds.logger.Error(logMsgAcquireFailed, logAttrResource, ds.resourceName, logAttrError, err.Error())
		return nil, err
	}

	return ds.wrapConnection(conn), nil
}

// ConnectionWithCredentials acquires a connection with explicit credentials
// from the next layer and wraps it with statement logging.
func (ds *SpyDataSource) ConnectionWithCredentials(ctx context.Context, username, password string) (decorator.Connection, error) {
	conn, err := ds.next.ConnectionWithCredentials(ctx, username, password)
	if err != nil {
		ds.logger.Error(logMsgAcquireFailed, logAttrResource, ds.resourceName, logAttrError, err.Error())
		return nil, err
	}

	return ds.wrapConnection(conn), nil
}

// LogWriter returns the log writer of the next layer.
func (ds *SpyDataSource) LogWriter() io.Writer {
	return ds.next.LogWriter()
}

// SetLogWriter sets the log writer on the next layer.
func (ds *SpyDataSource) SetLogWriter(writer io.Writer) {
	ds.next.SetLogWriter(writer)
}

// LoginTimeout returns the login timeout of the next layer.
func (ds *SpyDataSource) LoginTimeout() time.Duration {
	return ds.next.LoginTimeout()
}

// SetLoginTimeout sets the login timeout on the next layer.
func (ds *SpyDataSource) SetLoginTimeout(timeout time.Duration) {
	ds.next.SetLoginTimeout(timeout)
}

// Unwrap assigns this layer when it matches the target and otherwise
// continues the search at the next layer.
func (ds *SpyDataSource) Unwrap(target any) error {
	if decorator.UnwrapInto(target, ds) {
		return nil
	}

	return ds.next.Unwrap(target)
}

// IsWrapperFor reports whether Unwrap would succeed for the target.
func (ds *SpyDataSource) IsWrapperFor(target any) bool {
	if decorator.CanUnwrap(target, ds) {
		return true
	}

	return ds.next.IsWrapperFor(target)
}

func (ds *SpyDataSource) wrapConnection(conn decorator.Connection) decorator.Connection {
	return &spyConn{
		conn:         conn,
		resourceName: ds.resourceName,
		logger:       ds.logger,
		dataSource:   ds,
	}
}

// queryEvent is the JSON line emitted to the DataSource's log writer for
// each executed statement.
type queryEvent struct {
	Resource   string  `json:"resource"`
	Category   string  `json:"category"`
	Query      string  `json:"query"`
	DurationMS float64 `json:"duration_ms"`
	Error      string  `json:"error,omitempty"`
}

type spyConn struct {
	conn         decorator.Connection
	resourceName string
	logger       decorator.Logger
	dataSource   *SpyDataSource
}

func (c *spyConn) Query(ctx context.Context, query string) (decorator.Rows, error) {
	start := time.Now()
	rows, err := c.conn.Query(ctx, query)
	c.logStatement(logMsgQueryExecuted, query, time.Since(start), err)

	return rows, err
}

func (c *spyConn) Exec(ctx context.Context, query string) (decorator.Result, error) {
	start := time.Now()
	result, err := c.conn.Exec(ctx, query)
	c.logStatement(logMsgExecExecuted, query, time.Since(start), err)

	return result, err
}

func (c *spyConn) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *spyConn) Close() error {
	return c.conn.Close()
}

func (c *spyConn) logStatement(msg string, query string, duration time.Duration, statementErr error) {
	durationMS := float64(duration.Microseconds()) / 1000

	if statementErr != nil {
		c.logger.Error(msg,
			logAttrResource, c.resourceName,
			logAttrQuery, query,
			logAttrDurationMS, durationMS,
			logAttrError, statementErr.Error())
	} else {
		c.logger.Debug(msg,
			logAttrResource, c.resourceName,
			logAttrQuery, query,
			logAttrDurationMS, durationMS)
	}

	c.emitEvent(query, durationMS, statementErr)
}

// emitEvent writes one JSON query event line to the DataSource's log writer,
// if one is configured.
func (c *spyConn) emitEvent(query string, durationMS float64, statementErr error) {
	writer := c.dataSource.LogWriter()
	if writer == nil {
		return
	}

	event := queryEvent{
		Resource:   c.resourceName,
		Category:   eventCategoryStatement,
		Query:      query,
		DurationMS: durationMS,
	}
	if statementErr != nil {
		event.Error = statementErr.Error()
	}

	encoded, marshalErr := json.Marshal(event)
	if marshalErr != nil {
		c.logger.Warn(logMsgWriteEventFailed, logAttrError, marshalErr.Error())
		return
	}

	if _, writeErr := writer.Write(append(encoded, '\n')); writeErr != nil {
		c.logger.Warn(logMsgWriteEventFailed, logAttrError, writeErr.Error())
	}
}

// Package callproxy provides the built-in call-proxying decorator. Every
// connection of the decorated DataSource gets a unique id and a
// QueryListener is invoked around each statement, so applications can hook
// auditing, slow-query detection, or query collection into the chain.
package callproxy

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/ohjuntaek/datasource-decorator-go/decorator"
)

// Name identifies the call-proxying decorator in catalogs, exclusion rules,
// and chain rendering.
const Name = "callProxyDataSourceDecorator"

var _ decorator.DataSource = (*ProxyDataSource)(nil)

// QueryInfo describes one proxied statement execution.
type QueryInfo struct {
	ResourceName string
	ConnectionID uuid.UUID
	Query        string

	// Duration and Err are only set when passed to AfterQuery.
	Duration time.Duration
	Err      error
}

// QueryListener receives a callback before and after every proxied
// statement. Implementations must be safe for concurrent use; connections of
// one pool execute statements from many goroutines.
type QueryListener interface {
	BeforeQuery(info QueryInfo)
	AfterQuery(info QueryInfo)
}

// Definition returns the catalog definition of the call-proxying decorator.
// The decorator is unavailable when listener is nil.
func Definition(listener QueryListener) decorator.Definition {
	return decorator.NewDefinition(
		Name,
		decorator.PriorityCallProxy,
		func() bool { return listener != nil },
		func(resourceName string, previous decorator.DataSource) (decorator.DataSource, error) {
			return NewProxyDataSource(resourceName, previous, listener), nil
		},
	)
}

// ProxyDataSource is the call-proxying layer around the next DataSource.
type ProxyDataSource struct {
	resourceName string
	next         decorator.DataSource
	listener     QueryListener
}

// NewProxyDataSource wraps next with call proxying for the named resource.
func NewProxyDataSource(resourceName string, next decorator.DataSource, listener QueryListener) *ProxyDataSource {
	return &ProxyDataSource{
		resourceName: resourceName,
		next:         next,
		listener:     listener,
	}
}

// Connection acquires a connection from the next layer and proxies it.
func (ds *ProxyDataSource) Connection(ctx context.Context) (decorator.Connection, error) {
	conn, err := ds.next.Connection(ctx)
	if err != nil {
		return nil, err
	}

	return ds.wrapConnection(conn), nil
}

// ConnectionWithCredentials acquires a connection with explicit credentials
// from the next layer and proxies it.
func (ds *ProxyDataSource) ConnectionWithCredentials(ctx context.Context, username, password string) (decorator.Connection, error) {
	conn, err := ds.next.ConnectionWithCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}

	return ds.wrapConnection(conn), nil
}

// LogWriter returns the log writer of the next layer.
func (ds *ProxyDataSource) LogWriter() io.Writer {
	return ds.next.LogWriter()
}

// SetLogWriter sets the log writer on the next layer.
func (ds *ProxyDataSource) SetLogWriter(writer io.Writer) {
	ds.next.SetLogWriter(writer)
}

// LoginTimeout returns the login timeout of the next layer.
func (ds *ProxyDataSource) LoginTimeout() time.Duration {
	return ds.next.LoginTimeout()
}

// SetLoginTimeout sets the login timeout on the next layer.
func (ds *ProxyDataSource) SetLoginTimeout(timeout time.Duration) {
	ds.next.SetLoginTimeout(timeout)
}

// Unwrap assigns this layer when it matches the target and otherwise
// continues the search at the next layer.
func (ds *ProxyDataSource) Unwrap(target any) error {
	if decorator.UnwrapInto(target, ds) {
		return nil
	}

	return ds.next.Unwrap(target)
}

// IsWrapperFor reports whether Unwrap would succeed for the target.
func (ds *ProxyDataSource) IsWrapperFor(target any) bool {
	if decorator.CanUnwrap(target, ds) {
		return true
	}

	return ds.next.IsWrapperFor(target)
}

func (ds *ProxyDataSource) wrapConnection(conn decorator.Connection) decorator.Connection {
	return &proxyConn{
		conn:         conn,
		resourceName: ds.resourceName,
		connectionID: uuid.New(),
		listener:     ds.listener,
	}
}

type proxyConn struct {
	conn         decorator.Connection
	resourceName string
	connectionID uuid.UUID
	listener     QueryListener
}

func (c *proxyConn) Query(ctx context.Context, query string) (decorator.Rows, error) {
	info := c.queryInfo(query)
	c.listener.BeforeQuery(info)

	start := time.Now()
	rows, err := c.conn.Query(ctx, query)

	info.Duration = time.Since(start)
	info.Err = err
	c.listener.AfterQuery(info)

	return rows, err
}

func (c *proxyConn) Exec(ctx context.Context, query string) (decorator.Result, error) {
	info := c.queryInfo(query)
	c.listener.BeforeQuery(info)

	start := time.Now()
	result, err := c.conn.Exec(ctx, query)

	info.Duration = time.Since(start)
	info.Err = err
	c.listener.AfterQuery(info)

	return result, err
}

func (c *proxyConn) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *proxyConn) Close() error {
	return c.conn.Close()
}

func (c *proxyConn) queryInfo(query string) QueryInfo {
	return QueryInfo{
		ResourceName: c.resourceName,
		ConnectionID: c.connectionID,
		Query:        query,
	}
}

package adapters

import (
	"context"
	"database/sql"

	"github.com/ohjuntaek/datasource-decorator-go/decorator"
)

// SQLConn adapts a database/sql connection to the decorator.Connection interface.
type SQLConn struct {
	conn *sql.Conn
}

// NewSQLConn wraps a database/sql connection.
func NewSQLConn(conn *sql.Conn) *SQLConn {
	return &SQLConn{conn: conn}
}

// Query executes a query and returns wrapped rows.
func (c *SQLConn) Query(ctx context.Context, query string) (decorator.Rows, error) {
	rows, err := c.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows}, nil
}

// Exec executes a statement and returns the wrapped result.
func (c *SQLConn) Exec(ctx context.Context, query string) (decorator.Result, error) {
	result, err := c.conn.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &stdResult{result: result}, nil
}

// Ping verifies the connection is still alive.
func (c *SQLConn) Ping(ctx context.Context) error {
	return c.conn.PingContext(ctx)
}

// Close returns the connection to the pool.
func (c *SQLConn) Close() error {
	return c.conn.Close()
}

package adapters

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ohjuntaek/datasource-decorator-go/decorator"
)

// SQLXConn adapts a sqlx connection to the decorator.Connection interface.
type SQLXConn struct {
	conn *sqlx.Conn
}

// NewSQLXConn wraps a sqlx connection.
func NewSQLXConn(conn *sqlx.Conn) *SQLXConn {
	return &SQLXConn{conn: conn}
}

// Query executes a query and returns wrapped rows.
func (c *SQLXConn) Query(ctx context.Context, query string) (decorator.Rows, error) {
	rows, err := c.conn.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows.Rows}, nil
}

// Exec executes a statement and returns the wrapped result.
func (c *SQLXConn) Exec(ctx context.Context, query string) (decorator.Result, error) {
	result, err := c.conn.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &stdResult{result: result}, nil
}

// Ping verifies the connection is still alive.
func (c *SQLXConn) Ping(ctx context.Context) error {
	return c.conn.PingContext(ctx)
}

// Close returns the connection to the pool.
func (c *SQLXConn) Close() error {
	return c.conn.Close()
}

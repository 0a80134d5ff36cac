package adapters

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ohjuntaek/datasource-decorator-go/decorator"
)

// PGXConn adapts a pooled pgx connection to the decorator.Connection interface.
type PGXConn struct {
	conn *pgxpool.Conn
}

// NewPGXConn wraps a pooled pgx connection.
func NewPGXConn(conn *pgxpool.Conn) *PGXConn {
	return &PGXConn{conn: conn}
}

// Query executes a query and returns wrapped rows.
func (c *PGXConn) Query(ctx context.Context, query string) (decorator.Rows, error) {
	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return &pgxRows{rows: rows}, nil
}

// Exec executes a statement and returns the wrapped result.
func (c *PGXConn) Exec(ctx context.Context, query string) (decorator.Result, error) {
	tag, err := c.conn.Exec(ctx, query)
	if err != nil {
		return nil, err
	}

	return &pgxResult{tag: tag}, nil
}

// Ping verifies the connection is still alive.
func (c *PGXConn) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close releases the connection back to the pool.
func (c *PGXConn) Close() error {
	c.conn.Release()
	return nil
}

// PGXDirectConn adapts a standalone pgx connection, as used for
// per-connection credentials, to the decorator.Connection interface.
type PGXDirectConn struct {
	conn *pgx.Conn
}

// NewPGXDirectConn wraps a standalone pgx connection.
func NewPGXDirectConn(conn *pgx.Conn) *PGXDirectConn {
	return &PGXDirectConn{conn: conn}
}

// Query executes a query and returns wrapped rows.
func (c *PGXDirectConn) Query(ctx context.Context, query string) (decorator.Rows, error) {
	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return &pgxRows{rows: rows}, nil
}

// Exec executes a statement and returns the wrapped result.
func (c *PGXDirectConn) Exec(ctx context.Context, query string) (decorator.Result, error) {
	tag, err := c.conn.Exec(ctx, query)
	if err != nil {
		return nil, err
	}

	return &pgxResult{tag: tag}, nil
}

// Ping verifies the connection is still alive.
func (c *PGXDirectConn) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close closes the standalone connection; it is not pooled.
func (c *PGXDirectConn) Close() error {
	return c.conn.Close(context.Background())
}

// pgxRows wraps pgx.Rows to implement the decorator.Rows interface.
type pgxRows struct {
	rows pgx.Rows
}

// Next advances to the next row.
func (r *pgxRows) Next() bool {
	return r.rows.Next()
}

// Scan copies row values into provided destinations.
func (r *pgxRows) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

// Close closes the rows iterator.
func (r *pgxRows) Close() error {
	r.rows.Close()
	return nil
}

// pgxResult wraps pgconn.CommandTag to implement the decorator.Result interface.
type pgxResult struct {
	tag pgconn.CommandTag
}

// RowsAffected returns the number of rows affected by the command.
func (r *pgxResult) RowsAffected() (int64, error) {
	return r.tag.RowsAffected(), nil
}

package sqlpool

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/ohjuntaek/datasource-decorator-go/decorator"
	"github.com/ohjuntaek/datasource-decorator-go/decorator/sqlpool/internal/adapters"
)

var _ decorator.DataSource = (*PGXDataSource)(nil)
var _ decorator.DataSource = (*SQLDataSource)(nil)
var _ decorator.DataSource = (*SQLXDataSource)(nil)

// LogWriter returns the writer query events are emitted to, or nil.
func (s *settings) LogWriter() io.Writer {
	return s.logWriter
}

// SetLogWriter sets the writer query events are emitted to.
func (s *settings) SetLogWriter(writer io.Writer) {
	s.logWriter = writer
}

// LoginTimeout returns the bound on acquiring a connection; zero means none.
func (s *settings) LoginTimeout() time.Duration {
	return s.loginTimeout
}

// SetLoginTimeout sets the bound on acquiring a connection.
func (s *settings) SetLoginTimeout(timeout time.Duration) {
	s.loginTimeout = timeout
}

// DefaultCatalog returns the catalog name bound via WithDefaultCatalog.
func (s *settings) DefaultCatalog() string {
	return s.defaultCatalog
}

func (s *settings) acquireContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.loginTimeout > 0 {
		return context.WithTimeout(ctx, s.loginTimeout)
	}

	return ctx, func() {}
}

func (s *settings) applyOptions(options []Option) error {
	for _, option := range options {
		if err := option(s); err != nil {
			return err
		}
	}

	return nil
}

// PGXDataSource is the real DataSource backed by a pgxpool.Pool.
type PGXDataSource struct {
	settings
	pool *pgxpool.Pool
}

// NewDataSourceFromPGXPool creates a DataSource using a pgx Pool with
// optional configuration.
func NewDataSourceFromPGXPool(pool *pgxpool.Pool, options ...Option) (*PGXDataSource, error) {
	if pool == nil {
		return nil, ErrNilPoolSupplied
	}

	dataSource := &PGXDataSource{pool: pool}

	if err := dataSource.applyOptions(options); err != nil {
		return nil, err
	}

	return dataSource, nil
}

// Connection acquires a connection from the pool, bounded by the login
// timeout when one is set.
func (ds *PGXDataSource) Connection(ctx context.Context) (decorator.Connection, error) {
	ctx, cancel := ds.acquireContext(ctx)
	defer cancel()

	conn, acquireErr := ds.pool.Acquire(ctx)
	if acquireErr != nil {
		return nil, errors.Join(ErrAcquiringConnectionFailed, acquireErr)
	}

	return adapters.NewPGXConn(conn), nil
}

// ConnectionWithCredentials opens a standalone connection with the given
// credentials, reusing the pool's connection config for everything else.
func (ds *PGXDataSource) ConnectionWithCredentials(ctx context.Context, username, password string) (decorator.Connection, error) {
	connConfig := ds.pool.Config().ConnConfig
	connConfig.User = username
	connConfig.Password = password

	ctx, cancel := ds.acquireContext(ctx)
	defer cancel()

	conn, connectErr := pgx.ConnectConfig(ctx, connConfig)
	if connectErr != nil {
		return nil, errors.Join(ErrAcquiringConnectionFailed, connectErr)
	}

	return adapters.NewPGXDirectConn(conn), nil
}

// Unwrap assigns the DataSource itself or its backing pgxpool.Pool.
func (ds *PGXDataSource) Unwrap(target any) error {
	if decorator.UnwrapInto(target, ds, ds.pool) {
		return nil
	}

	return decorator.ErrUnsupportedCapability
}

// IsWrapperFor reports whether Unwrap would succeed for the target.
func (ds *PGXDataSource) IsWrapperFor(target any) bool {
	return decorator.CanUnwrap(target, ds, ds.pool)
}

// SQLDataSource is the real DataSource backed by a database/sql DB pool.
type SQLDataSource struct {
	settings
	db *sql.DB
}

// NewDataSourceFromSQLDB creates a DataSource using a sql.DB with optional
// configuration.
func NewDataSourceFromSQLDB(db *sql.DB, options ...Option) (*SQLDataSource, error) {
	if db == nil {
		return nil, ErrNilPoolSupplied
	}

	dataSource := &SQLDataSource{db: db}

	if err := dataSource.applyOptions(options); err != nil {
		return nil, err
	}

	return dataSource, nil
}

// Connection acquires a connection from the pool, bounded by the login
// timeout when one is set.
func (ds *SQLDataSource) Connection(ctx context.Context) (decorator.Connection, error) {
	ctx, cancel := ds.acquireContext(ctx)
	defer cancel()

	conn, connErr := ds.db.Conn(ctx)
	if connErr != nil {
		return nil, errors.Join(ErrAcquiringConnectionFailed, connErr)
	}

	return adapters.NewSQLConn(conn), nil
}

// ConnectionWithCredentials is not supported by database/sql pools; the pool
// owns a single set of credentials.
func (ds *SQLDataSource) ConnectionWithCredentials(_ context.Context, _, _ string) (decorator.Connection, error) {
	return nil, decorator.ErrCredentialsNotSupported
}

// Unwrap assigns the DataSource itself or its backing sql.DB.
func (ds *SQLDataSource) Unwrap(target any) error {
	if decorator.UnwrapInto(target, ds, ds.db) {
		return nil
	}

	return decorator.ErrUnsupportedCapability
}

// IsWrapperFor reports whether Unwrap would succeed for the target.
func (ds *SQLDataSource) IsWrapperFor(target any) bool {
	return decorator.CanUnwrap(target, ds, ds.db)
}

// SQLXDataSource is the real DataSource backed by a sqlx.DB pool.
type SQLXDataSource struct {
	settings
	db *sqlx.DB
}

// NewDataSourceFromSQLX creates a DataSource using a sqlx.DB with optional
// configuration.
func NewDataSourceFromSQLX(db *sqlx.DB, options ...Option) (*SQLXDataSource, error) {
	if db == nil {
		return nil, ErrNilPoolSupplied
	}

	dataSource := &SQLXDataSource{db: db}

	if err := dataSource.applyOptions(options); err != nil {
		return nil, err
	}

	return dataSource, nil
}

// Connection acquires a connection from the pool, bounded by the login
// timeout when one is set.
func (ds *SQLXDataSource) Connection(ctx context.Context) (decorator.Connection, error) {
	ctx, cancel := ds.acquireContext(ctx)
	defer cancel()

	conn, connErr := ds.db.Connx(ctx)
	if connErr != nil {
		return nil, errors.Join(ErrAcquiringConnectionFailed, connErr)
	}

	return adapters.NewSQLXConn(conn), nil
}

// ConnectionWithCredentials is not supported by sqlx pools; the pool owns a
// single set of credentials.
func (ds *SQLXDataSource) ConnectionWithCredentials(_ context.Context, _, _ string) (decorator.Connection, error) {
	return nil, decorator.ErrCredentialsNotSupported
}

// Unwrap assigns the DataSource itself, its backing sqlx.DB, or the
// underlying sql.DB.
func (ds *SQLXDataSource) Unwrap(target any) error {
	if decorator.UnwrapInto(target, ds, ds.db, ds.db.DB) {
		return nil
	}

	return decorator.ErrUnsupportedCapability
}

// IsWrapperFor reports whether Unwrap would succeed for the target.
func (ds *SQLXDataSource) IsWrapperFor(target any) bool {
	return decorator.CanUnwrap(target, ds, ds.db, ds.db.DB)
}

// Package sqlpool provides the real, undecorated DataSource implementations
// backed by the supported pool libraries: pgxpool.Pool, database/sql and
// sqlx.DB. These are the innermost layers of a decoration chain built with
// decorator.Build.
//
// Pool-specific properties (log writer, login timeout, default catalog) are
// bound through functional options before the pool is handed to the chain
// builder:
//
//	real, err := sqlpool.NewDataSourceFromPGXPool(pool,
//		sqlpool.WithLoginTimeout(5*time.Second),
//		sqlpool.WithDefaultCatalog("test_catalog"),
//	)
package sqlpool

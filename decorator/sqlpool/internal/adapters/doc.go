// Package adapters provides connection adapters that let the supported pool
// libraries (pgx, database/sql, sqlx) satisfy the decorator.Connection
// interface behind a common abstraction.
package adapters

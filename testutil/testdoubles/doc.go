// Package testdoubles provides spy and stub implementations of the
// decorator interfaces for tests: a Logger spy, a MetricsCollector spy, a
// QueryListener spy, and scriptable DataSource/Connection stubs standing in
// for a real pool.
package testdoubles

package decorator

import (
	"context"
	"io"
	"reflect"
	"time"
)

// DataSource is the capability contract shared by real connection pools,
// every decorator layer, and the composite produced by Build. A decorated
// DataSource must be usable everywhere an undecorated one is.
//
// Unwrap assigns the first layer (or backing pool object) assignable to the
// pointed-to target, returning ErrUnsupportedCapability when no layer
// matches, so vendor-specific downcasts keep working through the chain.
type DataSource interface {
	Connection(ctx context.Context) (Connection, error)
	ConnectionWithCredentials(ctx context.Context, username, password string) (Connection, error)
	LogWriter() io.Writer
	SetLogWriter(writer io.Writer)
	LoginTimeout() time.Duration
	SetLoginTimeout(timeout time.Duration)
	Unwrap(target any) error
	IsWrapperFor(target any) bool
}

// Connection defines the interface for a single leased connection,
// narrow enough for decorators to intercept per-statement calls.
type Connection interface {
	Query(ctx context.Context, query string) (Rows, error)
	Exec(ctx context.Context, query string) (Result, error)
	Ping(ctx context.Context) error
	Close() error
}

// Rows defines the interface for query result rows.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
}

// Result defines the interface for execution results.
type Result interface {
	RowsAffected() (int64, error)
}

// UnwrapInto assigns the first candidate assignable to the value target
// points at and reports whether any candidate matched. Target must be a
// non-nil pointer. DataSource implementations use it to satisfy Unwrap
// against themselves and their backing pool objects.
func UnwrapInto(target any, candidates ...any) bool {
	matched, candidateValue := matchCandidate(target, candidates)
	if !matched {
		return false
	}

	reflect.ValueOf(target).Elem().Set(candidateValue)

	return true
}

// CanUnwrap reports whether UnwrapInto would succeed, without assigning.
// DataSource implementations use it to satisfy IsWrapperFor.
func CanUnwrap(target any, candidates ...any) bool {
	matched, _ := matchCandidate(target, candidates)

	return matched
}

func matchCandidate(target any, candidates []any) (bool, reflect.Value) {
	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Pointer || targetValue.IsNil() {
		return false, reflect.Value{}
	}

	targetType := targetValue.Elem().Type()

	for _, candidate := range candidates {
		candidateValue := reflect.ValueOf(candidate)
		if candidateValue.IsValid() && candidateValue.Type().AssignableTo(targetType) {
			return true, candidateValue
		}
	}

	return false, reflect.Value{}
}

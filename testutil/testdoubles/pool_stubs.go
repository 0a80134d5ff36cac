package testdoubles

import (
	"context"
	"io"
	"reflect"
	"sync"
	"time"

	"github.com/ohjuntaek/datasource-decorator-go/decorator"
)

// StubDataSource is a scriptable decorator.DataSource standing in for a real
// pool in tests.
type StubDataSource struct {
	mu           sync.Mutex
	logWriter    io.Writer
	loginTimeout time.Duration

	// Conn is handed out by Connection and ConnectionWithCredentials unless
	// ConnectionErr is set.
	Conn          *StubConnection
	ConnectionErr error

	acquireCount    int
	credentialCalls []string
}

// NewStubDataSource creates a StubDataSource handing out the given connection.
func NewStubDataSource(conn *StubConnection) *StubDataSource {
	return &StubDataSource{Conn: conn}
}

// Connection implements the DataSource interface.
func (s *StubDataSource) Connection(_ context.Context) (decorator.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.acquireCount++

	if s.ConnectionErr != nil {
		return nil, s.ConnectionErr
	}

	return s.Conn, nil
}

// ConnectionWithCredentials implements the DataSource interface and records
// the requested username.
func (s *StubDataSource) ConnectionWithCredentials(_ context.Context, username, _ string) (decorator.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credentialCalls = append(s.credentialCalls, username)

	if s.ConnectionErr != nil {
		return nil, s.ConnectionErr
	}

	return s.Conn, nil
}

// LogWriter implements the DataSource interface.
func (s *StubDataSource) LogWriter() io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.logWriter
}

// SetLogWriter implements the DataSource interface.
func (s *StubDataSource) SetLogWriter(writer io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logWriter = writer
}

// LoginTimeout implements the DataSource interface.
func (s *StubDataSource) LoginTimeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loginTimeout
}

// SetLoginTimeout implements the DataSource interface.
func (s *StubDataSource) SetLoginTimeout(timeout time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loginTimeout = timeout
}

// Unwrap implements the DataSource interface.
func (s *StubDataSource) Unwrap(target any) error {
	if decorator.UnwrapInto(target, s) {
		return nil
	}

	return decorator.ErrUnsupportedCapability
}

// IsWrapperFor implements the DataSource interface.
func (s *StubDataSource) IsWrapperFor(target any) bool {
	return decorator.CanUnwrap(target, s)
}

// AcquireCount returns how often Connection was called.
func (s *StubDataSource) AcquireCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.acquireCount
}

// CredentialCalls returns the usernames passed to ConnectionWithCredentials.
func (s *StubDataSource) CredentialCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	calls := make([]string, len(s.credentialCalls))
	copy(calls, s.credentialCalls)

	return calls
}

// StubConnection is a scriptable decorator.Connection that records the
// statements executed against it.
type StubConnection struct {
	mu sync.Mutex

	// RowsData is handed out row by row for every Query call.
	RowsData     [][]any
	QueryErr     error
	ExecErr      error
	PingErr      error
	RowsAffected int64
	closed       bool
	queries      []string
	execs        []string
}

// NewStubConnection creates an empty StubConnection.
func NewStubConnection() *StubConnection {
	return &StubConnection{}
}

// Query implements the Connection interface.
func (c *StubConnection) Query(_ context.Context, query string) (decorator.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queries = append(c.queries, query)

	if c.QueryErr != nil {
		return nil, c.QueryErr
	}

	return &StubRows{Data: c.RowsData}, nil
}

// Exec implements the Connection interface.
func (c *StubConnection) Exec(_ context.Context, query string) (decorator.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.execs = append(c.execs, query)

	if c.ExecErr != nil {
		return nil, c.ExecErr
	}

	return &StubResult{Affected: c.RowsAffected}, nil
}

// Ping implements the Connection interface.
func (c *StubConnection) Ping(_ context.Context) error {
	return c.PingErr
}

// Close implements the Connection interface.
func (c *StubConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true

	return nil
}

// Queries returns the recorded Query statements.
func (c *StubConnection) Queries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	queries := make([]string, len(c.queries))
	copy(queries, c.queries)

	return queries
}

// Execs returns the recorded Exec statements.
func (c *StubConnection) Execs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	execs := make([]string, len(c.execs))
	copy(execs, c.execs)

	return execs
}

// Closed reports whether Close was called.
func (c *StubConnection) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

// StubRows is a decorator.Rows implementation iterating over fixed row data.
type StubRows struct {
	Data   [][]any
	cursor int
	closed bool
}

// Next implements the Rows interface.
func (r *StubRows) Next() bool {
	if r.cursor >= len(r.Data) {
		return false
	}

	r.cursor++

	return true
}

// Scan implements the Rows interface by assigning the current row's values
// to the given destinations.
func (r *StubRows) Scan(dest ...any) error {
	row := r.Data[r.cursor-1]

	for i, target := range dest {
		targetValue := reflect.ValueOf(target).Elem()
		value := reflect.ValueOf(row[i])

		if value.Type().AssignableTo(targetValue.Type()) {
			targetValue.Set(value)
		} else {
			targetValue.Set(value.Convert(targetValue.Type()))
		}
	}

	return nil
}

// Close implements the Rows interface.
func (r *StubRows) Close() error {
	r.closed = true

	return nil
}

// StubResult is a decorator.Result implementation with a fixed count.
type StubResult struct {
	Affected int64
}

// RowsAffected implements the Result interface.
func (r *StubResult) RowsAffected() (int64, error) {
	return r.Affected, nil
}

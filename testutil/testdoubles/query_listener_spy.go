package testdoubles

import (
	"sync"

	"github.com/ohjuntaek/datasource-decorator-go/decorator/builtin/callproxy"
)

// QueryListenerSpy is a callproxy.QueryListener implementation that captures
// the before/after callbacks for inspection in tests.
type QueryListenerSpy struct {
	mu     sync.Mutex
	before []callproxy.QueryInfo
	after  []callproxy.QueryInfo
}

// NewQueryListenerSpy creates a new QueryListenerSpy.
func NewQueryListenerSpy() *QueryListenerSpy {
	return &QueryListenerSpy{
		before: make([]callproxy.QueryInfo, 0),
		after:  make([]callproxy.QueryInfo, 0),
	}
}

// BeforeQuery implements the QueryListener interface.
func (s *QueryListenerSpy) BeforeQuery(info callproxy.QueryInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.before = append(s.before, info)
}

// AfterQuery implements the QueryListener interface.
func (s *QueryListenerSpy) AfterQuery(info callproxy.QueryInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.after = append(s.after, info)
}

// BeforeRecords returns a copy of all captured BeforeQuery calls.
func (s *QueryListenerSpy) BeforeRecords() []callproxy.QueryInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]callproxy.QueryInfo, len(s.before))
	copy(records, s.before)

	return records
}

// AfterRecords returns a copy of all captured AfterQuery calls.
func (s *QueryListenerSpy) AfterRecords() []callproxy.QueryInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]callproxy.QueryInfo, len(s.after))
	copy(records, s.after)

	return records
}

package decorator_test

import (
	"context"
	"io"
	"time"

	"github.com/ohjuntaek/datasource-decorator-go/decorator"
)

// realPool is a minimal real-pool double local to these tests; its concrete
// type name appears in chain renderings.
type realPool struct {
	writer  io.Writer
	timeout time.Duration
}

func (p *realPool) Connection(_ context.Context) (decorator.Connection, error) {
	return nil, nil
}

func (p *realPool) ConnectionWithCredentials(_ context.Context, _, _ string) (decorator.Connection, error) {
	return nil, nil
}

func (p *realPool) LogWriter() io.Writer {
	return p.writer
}

func (p *realPool) SetLogWriter(writer io.Writer) {
	p.writer = writer
}

func (p *realPool) LoginTimeout() time.Duration {
	return p.timeout
}

func (p *realPool) SetLoginTimeout(timeout time.Duration) {
	p.timeout = timeout
}

func (p *realPool) Unwrap(target any) error {
	if decorator.UnwrapInto(target, p) {
		return nil
	}

	return decorator.ErrUnsupportedCapability
}

func (p *realPool) IsWrapperFor(target any) bool {
	return decorator.CanUnwrap(target, p)
}

// chainLayer is the shared delegation plumbing of the test wrapper types.
// self points at the embedding wrapper so Unwrap can match its concrete type.
type chainLayer struct {
	self decorator.DataSource
	next decorator.DataSource
}

func (l *chainLayer) Connection(ctx context.Context) (decorator.Connection, error) {
	return l.next.Connection(ctx)
}

func (l *chainLayer) ConnectionWithCredentials(ctx context.Context, username, password string) (decorator.Connection, error) {
	return l.next.ConnectionWithCredentials(ctx, username, password)
}

func (l *chainLayer) LogWriter() io.Writer {
	return l.next.LogWriter()
}

func (l *chainLayer) SetLogWriter(writer io.Writer) {
	l.next.SetLogWriter(writer)
}

func (l *chainLayer) LoginTimeout() time.Duration {
	return l.next.LoginTimeout()
}

func (l *chainLayer) SetLoginTimeout(timeout time.Duration) {
	l.next.SetLoginTimeout(timeout)
}

func (l *chainLayer) Unwrap(target any) error {
	if decorator.UnwrapInto(target, l.self) {
		return nil
	}

	return l.next.Unwrap(target)
}

func (l *chainLayer) IsWrapperFor(target any) bool {
	if decorator.CanUnwrap(target, l.self) {
		return true
	}

	return l.next.IsWrapperFor(target)
}

type wrapperA struct{ chainLayer }

type wrapperB struct{ chainLayer }

type wrapperC struct{ chainLayer }

type customProxy struct{ chainLayer }

func newWrapperA(next decorator.DataSource) *wrapperA {
	wrapper := &wrapperA{}
	wrapper.self, wrapper.next = wrapper, next

	return wrapper
}

func newWrapperB(next decorator.DataSource) *wrapperB {
	wrapper := &wrapperB{}
	wrapper.self, wrapper.next = wrapper, next

	return wrapper
}

func newWrapperC(next decorator.DataSource) *wrapperC {
	wrapper := &wrapperC{}
	wrapper.self, wrapper.next = wrapper, next

	return wrapper
}

func newCustomProxy(next decorator.DataSource) *customProxy {
	wrapper := &customProxy{}
	wrapper.self, wrapper.next = wrapper, next

	return wrapper
}

// definitionOf builds a test definition wrapping with the given constructor.
func definitionOf(
	name string,
	priority int,
	available bool,
	construct func(decorator.DataSource) decorator.DataSource,
) decorator.Definition {

	return decorator.NewDefinition(
		name,
		priority,
		func() bool { return available },
		func(_ string, previous decorator.DataSource) (decorator.DataSource, error) {
			return construct(previous), nil
		},
	)
}

func chainLabels(composite decorator.DataSource) []string {
	decorated := composite.(*decorator.DecoratedDataSource)

	labels := make([]string, 0)
	for _, entry := range decorated.ChainEntries() {
		labels = append(labels, entry.Name)
	}

	return labels
}

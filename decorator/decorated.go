package decorator

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"
)

const chainArrow = " -> "

// ChainEntry is one layer of a decoration chain: the decorator definition's
// name (or the resource name for the innermost, real-pool entry) and the
// DataSource instance at that layer.
type ChainEntry struct {
	Name       string
	DataSource DataSource
}

// DecoratedDataSource is the composite produced by Build. It forwards every
// capability call to the outermost layer and exposes the full chain for
// introspection. The chain is fixed at construction time; rebuilding after a
// configuration change means constructing a new composite.
type DecoratedDataSource struct {
	entries   []ChainEntry
	outermost DataSource
	real      DataSource
}

func newDecoratedDataSource(entries []ChainEntry) *DecoratedDataSource {
	return &DecoratedDataSource{
		entries:   entries,
		outermost: entries[0].DataSource,
		real:      entries[len(entries)-1].DataSource,
	}
}

// ChainEntries returns the chain outer-to-inner; the final entry is always
// the real pool, labeled with the resource name. The returned slice is a
// copy.
func (d *DecoratedDataSource) ChainEntries() []ChainEntry {
	entries := make([]ChainEntry, len(d.entries))
	copy(entries, d.entries)

	return entries
}

// RealDataSource returns the innermost, undecorated pool.
func (d *DecoratedDataSource) RealDataSource() DataSource {
	return d.real
}

// OuterLayer returns what the outermost decorator wraps; with a single
// decorator layer this equals RealDataSource.
func (d *DecoratedDataSource) OuterLayer() DataSource {
	return d.entries[1].DataSource
}

// String renders the chain outer-to-inner, each layer as its label and the
// concrete type of its instance, e.g.
//
//	spyLogDataSourceDecorator [spylog.SpyDataSource] -> dataSource [sqlpool.PGXDataSource]
//
// The rendering is stable for a given chain.
func (d *DecoratedDataSource) String() string {
	parts := make([]string, 0, len(d.entries))

	for _, entry := range d.entries {
		parts = append(parts, fmt.Sprintf("%s [%s]", entry.Name, concreteTypeName(entry.DataSource)))
	}

	return strings.Join(parts, chainArrow)
}

// Connection acquires a connection through the full decoration chain.
func (d *DecoratedDataSource) Connection(ctx context.Context) (Connection, error) {
	return d.outermost.Connection(ctx)
}

// ConnectionWithCredentials acquires a connection with explicit credentials
// through the full decoration chain.
func (d *DecoratedDataSource) ConnectionWithCredentials(ctx context.Context, username, password string) (Connection, error) {
	return d.outermost.ConnectionWithCredentials(ctx, username, password)
}

// LogWriter returns the log writer of the outermost layer.
func (d *DecoratedDataSource) LogWriter() io.Writer {
	return d.outermost.LogWriter()
}

// SetLogWriter sets the log writer on the outermost layer.
func (d *DecoratedDataSource) SetLogWriter(writer io.Writer) {
	d.outermost.SetLogWriter(writer)
}

// LoginTimeout returns the login timeout of the outermost layer.
func (d *DecoratedDataSource) LoginTimeout() time.Duration {
	return d.outermost.LoginTimeout()
}

// SetLoginTimeout sets the login timeout on the outermost layer.
func (d *DecoratedDataSource) SetLoginTimeout(timeout time.Duration) {
	d.outermost.SetLoginTimeout(timeout)
}

// Unwrap assigns the composite itself when it matches the target and
// otherwise searches the chain from the outermost layer inward.
func (d *DecoratedDataSource) Unwrap(target any) error {
	if UnwrapInto(target, d) {
		return nil
	}

	return d.outermost.Unwrap(target)
}

// IsWrapperFor reports whether Unwrap would succeed for the target.
func (d *DecoratedDataSource) IsWrapperFor(target any) bool {
	if CanUnwrap(target, d) {
		return true
	}

	return d.outermost.IsWrapperFor(target)
}

func concreteTypeName(dataSource DataSource) string {
	dataSourceType := reflect.TypeOf(dataSource)

	for dataSourceType.Kind() == reflect.Pointer {
		dataSourceType = dataSourceType.Elem()
	}

	return dataSourceType.String()
}

package sqlpool

import (
	"io"
	"time"
)

// Option defines a functional option for configuring a pool-backed DataSource.
type Option func(*settings) error

// settings holds the pool-independent DataSource properties; every concrete
// DataSource type embeds it.
type settings struct {
	logWriter      io.Writer
	loginTimeout   time.Duration
	defaultCatalog string
}

// WithLogWriter sets the writer instrumentation decorators may emit
// query events to.
func WithLogWriter(writer io.Writer) Option {
	return func(s *settings) error {
		if writer == nil {
			return ErrNilLogWriterSupplied
		}

		s.logWriter = writer

		return nil
	}
}

// WithLoginTimeout bounds how long acquiring a connection may take.
// Zero means no bound.
func WithLoginTimeout(timeout time.Duration) Option {
	return func(s *settings) error {
		if timeout < 0 {
			return ErrNegativeLoginTimeout
		}

		s.loginTimeout = timeout

		return nil
	}
}

// WithDefaultCatalog sets the catalog name connections of this pool are
// associated with.
func WithDefaultCatalog(name string) Option {
	return func(s *settings) error {
		if name == "" {
			return ErrEmptyCatalogNameSupplied
		}

		s.defaultCatalog = name

		return nil
	}
}

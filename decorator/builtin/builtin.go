// Package builtin assembles the default decorator catalog from the three
// built-in decorators: query logging (spylog), call proxying (callproxy) and
// adaptive pool metrics (poolmetrics).
package builtin

import (
	"github.com/ohjuntaek/datasource-decorator-go/decorator"
	"github.com/ohjuntaek/datasource-decorator-go/decorator/builtin/callproxy"
	"github.com/ohjuntaek/datasource-decorator-go/decorator/builtin/poolmetrics"
	"github.com/ohjuntaek/datasource-decorator-go/decorator/builtin/spylog"
)

// Config carries the collaborators backing the built-in decorators. A nil
// collaborator leaves the corresponding decorator unavailable; it is skipped
// at build time without leaving a gap in the chain.
type Config struct {
	Logger        decorator.Logger
	QueryListener callproxy.QueryListener
	Metrics       decorator.MetricsCollector
}

// DefaultCatalog creates a catalog holding the built-in decorators in their
// fixed priority order. Custom definitions can be added afterward with
// RegisterCustom; they always end up outside the built-ins.
func DefaultCatalog(config Config) (*decorator.Catalog, error) {
	return decorator.NewCatalog(
		spylog.Definition(config.Logger),
		callproxy.Definition(config.QueryListener),
		poolmetrics.Definition(config.Metrics),
	)
}
